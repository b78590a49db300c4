package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/michi-labs/catapi/internal/core/ports"
)

const (
	idempotencyTTL = 24 * time.Hour
	// reservationTTL bounds how long a crashed registration can hold a key.
	reservationTTL = 30 * time.Second
	pendingValue   = "pending"
)

// IdempotencyStore remembers registration Idempotency-Key values in Redis.
// Key format: idempotency:register:<key> → "pending" while reserved, then the user id.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// NewIdempotencyStore wraps client. Keys expire after ttl (24h when ttl <= 0).
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = idempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the user id recorded for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	userID, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if userID == pendingValue {
		return "", false, nil
	}
	return userID, true, nil
}

// Reserve claims key with SetNX, so exactly one concurrent caller wins.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingValue, reservationTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

// Remember replaces the reservation with userID for the full TTL.
func (s *IdempotencyStore) Remember(ctx context.Context, key, userID string) error {
	if err := s.client.Set(ctx, s.key(key), userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idempotency:register:" + key
}
