package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Files holds the bundled PostgreSQL migrations
//
//go:embed sql/*.sql
var Files embed.FS

// Dir is the directory of the bundled migrations inside Files
const Dir = "sql"

// Migrator manages database migrations
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger.With().Str("component", "migrator").Logger(),
	}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// VersionOf extracts the version prefix of a migration file name ("001_init.sql" => "001")
func VersionOf(filename string) string {
	return strings.SplitN(path.Base(filename), "_", 2)[0]
}

// applyFile executes one migration file inside a transaction and records it
func (m *Migrator) applyFile(ctx context.Context, fsys fs.FS, filePath string) error {
	version := VersionOf(filePath)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("file", filePath).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration execution: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`, version, time.Now()); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("migration %s: %w", filePath, err)
	}

	m.logger.Info().Str("file", filePath).Msg("Migration file successfully applied")
	return nil
}

// MigrationFiles lists the .sql files of dir in execution order
func MigrationFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// MigrateFS applies every pending migration found in dir of fsys
func (m *Migrator) MigrateFS(ctx context.Context, fsys fs.FS, dir string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	files, err := MigrationFiles(fsys, dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := m.applyFile(ctx, fsys, file); err != nil {
			return err
		}
	}
	return nil
}

// Migrate applies the bundled migrations
func (m *Migrator) Migrate(ctx context.Context) error {
	return m.MigrateFS(ctx, Files, Dir)
}
