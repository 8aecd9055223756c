package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Dinesh259/Free-Solutions/internal/app/migrations"
	"github.com/Dinesh259/Free-Solutions/internal/app/repositories/repotest"
)

// openTestDB connects to TEST_DATABASE_URL, applies the migrations and
// empties the tables. Tests are skipped without it.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).Migrate(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE sessions, contents, users`)
	require.NoError(t, err)
	return pool
}

func TestUserRepository(t *testing.T) {
	repotest.RunUserRepositoryTests(t, NewUserRepository(openTestDB(t)))
}

func TestContentRepository(t *testing.T) {
	repotest.RunContentRepositoryTests(t, NewContentRepository(openTestDB(t)))
}

func TestContentRoundTrip(t *testing.T) {
	repotest.RunContentRoundTripTests(t, NewContentRepository(openTestDB(t)))
}
