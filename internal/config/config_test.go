package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_RESET_TOKEN_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, DriverPostgres, cfg.Session.Store)
	assert.Equal(t, "freesolutions.sid", cfg.Session.CookieName)
	assert.Equal(t, "336h", cfg.Session.TTL)
	assert.Equal(t, int64(2<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	require.Len(t, cfg.Curriculum.Subjects, 2)
	assert.True(t, cfg.Curriculum.Subjects[0].ExerciseOrganized)
	assert.False(t, cfg.Curriculum.Subjects[1].ExerciseOrganized)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: mongo
  mongo_uri: mongodb://db:27017
session:
  store: redis
auth:
  reset_token_secret: from-file
curriculum:
  subjects:
    - name: Mathematics
      exercise_organized: true
    - name: Physics
`)
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("UPLOAD_ALLOWED_TYPES", "image/png, image/jpeg")
	t.Setenv("SESSION_SECURE", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Database.MongoURI)
	assert.Equal(t, DriverRedis, cfg.Session.Store)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, []string{"image/png", "image/jpeg"}, cfg.Upload.AllowedTypes)
	assert.Equal(t, "Physics", cfg.Curriculum.Subjects[1].Name)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing reset secret", "auth:\n  reset_token_secret: \"\"\n"},
		{"unknown driver", "database:\n  driver: oracle\nauth:\n  reset_token_secret: x\n"},
		{"session store mismatch", "database:\n  driver: mongo\nsession:\n  store: postgres\nauth:\n  reset_token_secret: x\n"},
		{"duplicate subject", "auth:\n  reset_token_secret: x\ncurriculum:\n  subjects:\n    - name: Science\n    - name: Science\n"},
		{"request smaller than upload", "server:\n  max_request_size: 10\nauth:\n  reset_token_secret: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
