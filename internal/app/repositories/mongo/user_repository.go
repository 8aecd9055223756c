package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/logger"
)

// UserRepository stores users in the "users" collection
type UserRepository struct {
	c *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{c: db.Collection("users")}
}

// EnsureIndexes creates the unique mobile index
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mobile", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	return nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.Role == "" {
		user.Role = models.RoleStudent
	}

	doc := userDocument{
		ID:                primitive.NewObjectID(),
		Mobile:            user.Mobile,
		Password:          user.PasswordHash,
		Role:              string(user.Role),
		IsProfileComplete: user.IsProfileComplete,
		Name:              user.Profile.Name,
		DOB:               user.Profile.DOB,
		FatherName:        user.Profile.FatherName,
		StudentClass:      user.Profile.ClassLevel,
		Gender:            string(user.Profile.Gender),
		Medium:            string(user.Profile.Medium),
		SchoolName:        user.Profile.SchoolName,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrMobileAlreadyRegistered
		}
		logger.Error().Err(err).Str("mobile", user.Mobile).Msg("Failed inserting new user")
		return fmt.Errorf("error creating user: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.c.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return doc.toModel(), nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByMobile retrieves a user by mobile number
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"mobile": mobile})
}

// FindByMobileAndDOB retrieves a user matching both mobile number and date of birth
func (r *UserRepository) FindByMobileAndDOB(ctx context.Context, mobile, dob string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"mobile": mobile, "dob": dob})
}

// MobileExists checks if a mobile number is already registered
func (r *UserRepository) MobileExists(ctx context.Context, mobile string) (bool, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"mobile": mobile}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking mobile: %w", err)
	}
	return n > 0, nil
}

// UpdateProfile replaces the academic profile and marks it complete
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":              profile.Name,
		"dob":               profile.DOB,
		"fatherName":        profile.FatherName,
		"studentClass":      profile.ClassLevel,
		"gender":            string(profile.Gender),
		"medium":            string(profile.Medium),
		"schoolName":        profile.SchoolName,
		"isProfileComplete": true,
		"updatedAt":         time.Now().UTC(),
	}}

	var doc userDocument
	err = r.c.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return doc.toModel(), nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	res, err := r.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
