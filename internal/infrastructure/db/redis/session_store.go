package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/linkboard/linkboard-api/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore holds server-side session state keyed by a random, unguessable
// reference. The reference itself carries no claims; destroying the key is an
// immediate revocation (logout).
// Key format: session:<uuid>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Issue creates a new session for the user and returns its opaque reference.
func (s *SessionStore) Issue(ctx context.Context, user *domain.User) (string, error) {
	ref := uuid.NewString()
	key := s.key(ref)

	fields := map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	}
	if err := s.client.HSet(ctx, key, fields).Err(); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session expire: %w", err)
	}
	return ref, nil
}

// Resolve looks up the session state behind the reference. Unknown and
// expired references are indistinguishable from malformed ones.
func (s *SessionStore) Resolve(ctx context.Context, assertion string) (*domain.Principal, error) {
	vals, err := s.client.HGetAll(ctx, s.key(assertion)).Result()
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if len(vals) == 0 {
		return nil, domain.ErrInvalidAssertion
	}

	p := &domain.Principal{
		ID:       vals["user_id"],
		Username: vals["username"],
		Role:     vals["role"],
	}
	if p.ID == "" || p.Username == "" || p.Role == "" {
		return nil, domain.ErrInvalidAssertion
	}
	return p, nil
}

// Revoke deletes the session state, invalidating the reference immediately.
func (s *SessionStore) Revoke(ctx context.Context, assertion string) error {
	if assertion == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(assertion)).Err()
}

func (s *SessionStore) key(ref string) string {
	return fmt.Sprintf("session:%s", ref)
}
