// Package postgres implements the identity and content stores on PostgreSQL.
package postgres

import (
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dinesh259/Free-Solutions/internal/app/repositories"
)

// NewRepositories initializes all PostgreSQL backed repositories
func NewRepositories(db *pgxpool.Pool) *repositories.Repositories {
	return &repositories.Repositories{
		Users:    NewUserRepository(db),
		Contents: NewContentRepository(db),
		Health:   db,
	}
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
