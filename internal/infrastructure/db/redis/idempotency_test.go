package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore_KeyFormat(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	assert.Equal(t, "idempotency:register:abc", s.key("abc"))
	assert.Equal(t, idempotencyTTL, s.ttl)
}

func TestIdempotencyStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	s := NewIdempotencyStore(client, time.Minute)

	_, found, err := s.Lookup(context.Background(), "abc")
	require.Error(t, err)
	assert.False(t, found)
	assert.Contains(t, err.Error(), "idempotency lookup")

	_, err = s.Reserve(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency reserve")

	err = s.Remember(context.Background(), "abc", "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency remember")

	err = s.Release(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "idempotency release")
}
