package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledMigrations(t *testing.T) {
	files, err := MigrationFiles(Files, Dir)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "sql/001_init.sql", files[0])
}

func TestMigrationFilesOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_sessions.sql": {Data: []byte("SELECT 1;")},
		"m/001_init.sql":     {Data: []byte("SELECT 1;")},
		"m/README.md":        {Data: []byte("notes")},
	}

	files, err := MigrationFiles(fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"m/001_init.sql", "m/002_sessions.sql"}, files)
	assert.Equal(t, "002", VersionOf(files[1]))
}
