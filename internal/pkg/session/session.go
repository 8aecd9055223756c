// Package session keeps server-side login sessions. A session is addressed by
// an opaque random token held in a cookie and persisted in a pluggable Store
// under the token's hash.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

// DefaultTTL is the lifetime of a session
const DefaultTTL = 14 * 24 * time.Hour

// Snapshot is the copy of the user profile carried by a session
type Snapshot struct {
	Mobile            string         `json:"mobile" bson:"mobile"`
	IsProfileComplete bool           `json:"isProfileComplete" bson:"isProfileComplete"`
	Profile           models.Profile `json:"profile" bson:"profile"`
}

// SnapshotOf copies the session relevant fields of a user
func SnapshotOf(u *models.User) Snapshot {
	return Snapshot{
		Mobile:            u.Mobile,
		IsProfileComplete: u.IsProfileComplete,
		Profile:           u.Profile,
	}
}

// Session is a persisted login
type Session struct {
	// ID is the hash of the session token
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Role      models.RoleType `json:"role"`
	User      Snapshot        `json:"user"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// IsAdmin reports whether the session belongs to an admin
func (s *Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// Expired reports whether the session has expired at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get must report apperrors.ErrSessionNotFound for
// unknown and expired sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// Manager issues, resolves and revokes sessions
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager creates a Manager. A non-positive ttl selects DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for user and returns its token
func (m *Manager) Create(ctx context.Context, user *models.User) (string, *Session, error) {
	token, err := NewToken()
	if err != nil {
		return "", nil, err
	}

	now := m.now().UTC()
	s := &Session{
		ID:        HashToken(token),
		UserID:    user.ID,
		Role:      user.Role,
		User:      SnapshotOf(user),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}
	return token, s, nil
}

// Resolve returns the live session of token
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperrors.ErrSessionNotFound
	}

	s, err := m.store.Get(ctx, HashToken(token))
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, s.ID)
		return nil, apperrors.ErrSessionNotFound
	}
	return s, nil
}

// Refresh replaces the profile snapshot of a session with the current user
// record. The expiry is left unchanged.
func (m *Manager) Refresh(ctx context.Context, s *Session, user *models.User) error {
	if s.UserID != user.ID {
		return errors.New("session belongs to another user")
	}
	s.User = SnapshotOf(user)
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

// Destroy revokes the session of token. Unknown tokens are ignored.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, HashToken(token))
}

// DestroyUser revokes every session of a user
func (m *Manager) DestroyUser(ctx context.Context, userID string) error {
	return m.store.DeleteByUser(ctx, userID)
}
