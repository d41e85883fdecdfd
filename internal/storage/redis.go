package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridianlabs/purchase-engine/internal/common"
	"github.com/meridianlabs/purchase-engine/internal/session"
)

const (
	sessionKeyPrefix    = "purchase:session:"
	processingKeyPrefix = "purchase:processing:"

	// defaultProcessingTTL bounds how long a crashed request can hold the
	// in-flight marker.
	defaultProcessingTTL = 90 * time.Second
)

// RedisStore implements service.SessionStore over Redis with a per-session
// TTL. Eviction by TTL is the session's implicit destruction.
type RedisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// NewRedisStore creates a Redis session store.
func NewRedisStore(addr, password string, db int, sessionTTL time.Duration) (*RedisStore, error) {
	if err := validateString(addr, "addr"); err != nil {
		return nil, err
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("sessionTTL must be positive, got %v", sessionTTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{
		client:     client,
		sessionTTL: sessionTTL,
	}, nil
}

// Close releases the client connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Load fetches a session payload by id.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (session.Payload, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	raw, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", common.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var payload session.Payload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", common.ErrStorageCorrupted, sessionID, err)
	}
	return payload, nil
}

// Save upserts a session payload and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, sessionID string, payload session.Payload) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}
	if payload == nil {
		return fmt.Errorf("payload cannot be nil")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal session payload: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, raw, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session payload.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return err
	}

	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// RedisProcessingGuard implements service.ProcessingGuard with a short-lived
// SETNX marker keyed by session id. Two requests racing to process the same
// session serialize here: the loser gets common.ErrSessionConflict.
type RedisProcessingGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProcessingGuard creates the guard on an existing store's client.
func NewRedisProcessingGuard(store *RedisStore, ttl time.Duration) *RedisProcessingGuard {
	if ttl <= 0 {
		ttl = defaultProcessingTTL
	}
	return &RedisProcessingGuard{
		client: store.client,
		ttl:    ttl,
	}
}

// Acquire takes the in-flight marker for a session. The returned release
// func is safe to call once; the TTL cleans up after crashed holders.
func (g *RedisProcessingGuard) Acquire(ctx context.Context, sessionID string) (func(), error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(sessionID, "sessionID"); err != nil {
		return nil, err
	}

	key := processingKeyPrefix + sessionID
	ok, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire processing marker: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrSessionConflict, sessionID)
	}

	release := func() {
		// Best effort; the TTL is the backstop.
		_ = g.client.Del(context.Background(), key).Err()
	}
	return release, nil
}
