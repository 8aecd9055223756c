// Package mongo implements the identity and content stores on MongoDB.
package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
)

type clientPinger struct {
	client *mongo.Client
}

func (p clientPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// NewRepositories initializes all MongoDB backed repositories and their indexes
func NewRepositories(ctx context.Context, db *mongo.Database) (*repositories.Repositories, error) {
	users := NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	contents := NewContentRepository(db)
	if err := contents.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	return &repositories.Repositories{
		Users:    users,
		Contents: contents,
		Health:   clientPinger{client: db.Client()},
	}, nil
}
