package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

type sessionDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Role      string    `bson:"role"`
	User      Snapshot  `bson:"user"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoStore keeps sessions in the "sessions" collection. A TTL index on
// expiresAt lets the server drop expired sessions.
type MongoStore struct {
	c *mongo.Collection
}

// NewMongoStore creates a MongoStore and its indexes
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	c := db.Collection("sessions")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sessions indexes: %w", err)
	}
	return &MongoStore{c: c}, nil
}

// Save stores or replaces a session
func (s *MongoStore) Save(ctx context.Context, sess *Session) error {
	doc := sessionDocument{
		ID:        sess.ID,
		UserID:    sess.UserID,
		Role:      string(sess.Role),
		User:      sess.User,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": sess.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns a live session
func (s *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var doc sessionDocument
	err := s.c.FindOne(ctx, bson.M{"_id": id, "expiresAt": bson.M{"$gt": time.Now()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	return &Session{
		ID:        doc.ID,
		UserID:    doc.UserID,
		Role:      models.RoleType(doc.Role),
		User:      doc.User,
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

// Delete removes a session
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.c.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes every session of a user
func (s *MongoStore) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := s.c.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}
