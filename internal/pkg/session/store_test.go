package session

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dinesh259/Free-Solutions/internal/app/migrations"
	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	pgrepo "github.com/Dinesh259/Free-Solutions/internal/app/repositories/postgres"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

// runStoreTests exercises a Store directly. userA and userB must be distinct
// user IDs accepted by the store.
func runStoreTests(t *testing.T, store Store, userA, userB string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	newSession := func(id, userID string, expires time.Time) *Session {
		u := newStudent(userID)
		return &Session{
			ID:        HashToken(id),
			UserID:    userID,
			Role:      u.Role,
			User:      SnapshotOf(u),
			CreatedAt: now,
			ExpiresAt: expires,
		}
	}

	t.Run("save and get", func(t *testing.T) {
		sess := newSession("a1", userA, now.Add(time.Hour))
		require.NoError(t, store.Save(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, userA, got.UserID)
		assert.Equal(t, models.RoleStudent, got.Role)
		assert.Equal(t, "Asha", got.User.Profile.Name)
		assert.True(t, got.User.IsProfileComplete)
	})

	t.Run("save replaces snapshot", func(t *testing.T) {
		sess := newSession("a2", userA, now.Add(time.Hour))
		require.NoError(t, store.Save(ctx, sess))

		sess.User.Profile.ClassLevel = 12
		require.NoError(t, store.Save(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, got.User.Profile.ClassLevel)
	})

	t.Run("unknown and expired", func(t *testing.T) {
		_, err := store.Get(ctx, HashToken("missing"))
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)

		expired := newSession("a3", userA, now.Add(-time.Minute))
		require.NoError(t, store.Save(ctx, expired))
		_, err = store.Get(ctx, expired.ID)
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		sess := newSession("a4", userA, now.Add(time.Hour))
		require.NoError(t, store.Save(ctx, sess))
		require.NoError(t, store.Delete(ctx, sess.ID))
		require.NoError(t, store.Delete(ctx, sess.ID))

		_, err := store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	})

	t.Run("delete by user", func(t *testing.T) {
		first := newSession("b1", userA, now.Add(time.Hour))
		second := newSession("b2", userA, now.Add(time.Hour))
		other := newSession("b3", userB, now.Add(time.Hour))
		for _, s := range []*Session{first, second, other} {
			require.NoError(t, store.Save(ctx, s))
		}

		require.NoError(t, store.DeleteByUser(ctx, userA))

		_, err := store.Get(ctx, first.ID)
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		_, err = store.Get(ctx, second.ID)
		assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		_, err = store.Get(ctx, other.ID)
		assert.NoError(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemoryStore(), "u1", "u2")
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	runStoreTests(t, store, "u1", "u2")
}

func TestPostgresStore(t *testing.T) {
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

	// sessions reference users, so both owners have to exist
	users := pgrepo.NewUserRepository(pool)
	ids := make([]string, 0, 2)
	for _, mobile := range []string{"9000000001", "9000000002"} {
		u := &models.User{Mobile: mobile, PasswordHash: "x", Role: models.RoleStudent}
		require.NoError(t, users.Create(ctx, u))
		ids = append(ids, u.ID)
	}

	runStoreTests(t, NewPostgresStore(pool), ids[0], ids[1])
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("freesolutions_sessions_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	store, err := NewMongoStore(ctx, db)
	require.NoError(t, err)
	runStoreTests(t, store, "u1", "u2")
}
