package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

// PostgresStore keeps sessions in the "sessions" table. Expired rows are
// ignored on read and removed when met.
type PostgresStore struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostgresStore creates a PostgresStore
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Save stores or replaces a session
func (s *PostgresStore) Save(ctx context.Context, sess *Session) error {
	snapshot, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}

	sql, args, err := s.sb.Insert("sessions").
		Columns("id", "user_id", "role", "profile", "created_at", "expires_at").
		Values(sess.ID, sess.UserID, string(sess.Role), snapshot, sess.CreatedAt, sess.ExpiresAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role, profile = EXCLUDED.profile, expires_at = EXCLUDED.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save session query: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns a live session
func (s *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	sql, args, err := s.sb.Select("id", "user_id", "role", "profile", "created_at", "expires_at").
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get session query: %w", err)
	}

	var sess Session
	var role string
	var snapshot []byte
	err = s.db.QueryRow(ctx, sql, args...).Scan(&sess.ID, &sess.UserID, &role, &snapshot, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if sess.Expired(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, apperrors.ErrSessionNotFound
	}

	if err := json.Unmarshal(snapshot, &sess.User); err != nil {
		return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
	}
	sess.Role = models.RoleType(role)
	return &sess, nil
}

// Delete removes a session
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes every session of a user. Expired rows of any user are
// purged along the way.
func (s *PostgresStore) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1 OR expires_at <= NOW()`, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}
