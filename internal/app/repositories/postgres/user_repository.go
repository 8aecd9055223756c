package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/dberrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/logger"
)

const usersMobileConstraint = "users_mobile_key"

var userColumns = []string{
	"id", "mobile", "password", "role", "is_profile_complete",
	"name", "dob", "father_name", "student_class", "gender", "medium", "school_name",
	"created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role, gender, medium string
	err := row.Scan(
		&u.ID, &u.Mobile, &u.PasswordHash, &role, &u.IsProfileComplete,
		&u.Profile.Name, &u.Profile.DOB, &u.Profile.FatherName, &u.Profile.ClassLevel,
		&gender, &medium, &u.Profile.SchoolName,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = models.RoleType(role)
	u.Profile.Gender = models.Gender(gender)
	u.Profile.Medium = models.Medium(medium)
	return &u, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	id := uuid.New().String()
	if user.Role == "" {
		user.Role = models.RoleStudent
	}

	sql, args, err := r.sb.Insert("users").
		Columns(userColumns...).
		Values(
			id, user.Mobile, user.PasswordHash, string(user.Role), user.IsProfileComplete,
			user.Profile.Name, user.Profile.DOB, user.Profile.FatherName, user.Profile.ClassLevel,
			string(user.Profile.Gender), string(user.Profile.Medium), user.Profile.SchoolName,
			now, now,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, usersMobileConstraint) {
			return apperrors.ErrMobileAlreadyRegistered
		}
		logger.Error().Err(err).Str("mobile", user.Mobile).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByMobile retrieves a user by mobile number
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"mobile": mobile})
}

// FindByMobileAndDOB retrieves a user matching both mobile number and date of birth
func (r *UserRepository) FindByMobileAndDOB(ctx context.Context, mobile, dob string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"mobile": mobile, "dob": dob})
}

// MobileExists checks if a mobile number is already registered
func (r *UserRepository) MobileExists(ctx context.Context, mobile string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE mobile = $1)`, mobile).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking mobile: %w", err)
	}
	return exists, nil
}

// UpdateProfile replaces the academic profile and marks it complete
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, profile models.Profile) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.ErrUserNotFound
	}

	sql, args, err := r.sb.Update("users").
		SetMap(map[string]interface{}{
			"name":                profile.Name,
			"dob":                 profile.DOB,
			"father_name":         profile.FatherName,
			"student_class":       profile.ClassLevel,
			"gender":              string(profile.Gender),
			"medium":              string(profile.Medium),
			"school_name":         profile.SchoolName,
			"is_profile_complete": true,
			"updated_at":          time.Now().UTC(),
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update profile query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return user, nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrUserNotFound
	}

	sql, args, err := r.sb.Update("users").
		Set("password", passwordHash).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
