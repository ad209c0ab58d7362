package port

import (
	"context"
	"time"
)

// SharedStore is the contract over the store backing the response cache and
// the rate-limit counters. Backed by Redis in production so multiple
// instances see the same entries; an in-process implementation exists for
// tests and single-node runs.
type SharedStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, key string) error

	// Increment bumps the counter at key and returns the new count. The ttl
	// applies only when the key is created, so the window is fixed from the
	// first hit.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Close() error
}
