package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Dinesh259/Free-Solutions/internal/app/repositories/repotest"
)

// openTestDB connects to TEST_MONGO_URI and returns a fresh database that is
// dropped after the test. Tests are skipped without it.
func openTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("freesolutions_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestRepositories(t *testing.T) {
	db := openTestDB(t)

	repos, err := NewRepositories(context.Background(), db)
	require.NoError(t, err)
	require.NoError(t, repos.Health.Ping(context.Background()))

	t.Run("users", func(t *testing.T) {
		repotest.RunUserRepositoryTests(t, repos.Users)
	})
	t.Run("contents", func(t *testing.T) {
		repotest.RunContentRepositoryTests(t, repos.Contents)
	})
	t.Run("round trip", func(t *testing.T) {
		repotest.RunContentRoundTripTests(t, repos.Contents)
	})
}
