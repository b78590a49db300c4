package ports

import "context"

// IdempotencyStore remembers which user a registration idempotency key produced.
// A key moves from reserved (registration in flight) to recorded (user id known).
type IdempotencyStore interface {
	// Lookup returns the user id recorded for key. A key that is only
	// reserved is reported as not found.
	Lookup(ctx context.Context, key string) (userID string, found bool, err error)
	// Reserve claims key for one in-flight registration. It reports false
	// when the key is already reserved or recorded.
	Reserve(ctx context.Context, key string) (bool, error)
	// Remember records the user created under key.
	Remember(ctx context.Context, key, userID string) error
	// Release drops the reservation of a registration that failed.
	Release(ctx context.Context, key string) error
}
