package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
)

const (
	redisSessionPrefix = "session:"
	redisUserPrefix    = "user_sessions:"
)

// RedisStore keeps sessions as JSON values that expire with the session. A set
// per user indexes the user's sessions for bulk revocation.
type RedisStore struct {
	client *redis.Client
	// indexTTL bounds the lifetime of the per-user index and must not be
	// shorter than any session lifetime
	indexTTL time.Duration
}

// NewRedisStore creates a RedisStore for sessions living at most maxTTL
func NewRedisStore(client *redis.Client, maxTTL time.Duration) *RedisStore {
	if maxTTL <= 0 {
		maxTTL = DefaultTTL
	}
	return &RedisStore{client: client, indexTTL: maxTTL}
}

func sessionKey(id string) string { return redisSessionPrefix + id }

func userSetKey(userID string) string { return redisUserPrefix + userID }

// Save stores or replaces a session
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sess.ID), data, ttl)
		pipe.SAdd(ctx, userSetKey(sess.UserID), sess.ID)
		pipe.Expire(ctx, userSetKey(sess.UserID), s.indexTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns a live session
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes every session of a user
func (s *RedisStore) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userSetKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSetKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}
