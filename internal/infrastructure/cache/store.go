package cache

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been processed
type IdempotencyStore interface {
	// MarkProcessed records key for ttl. It returns false when key was
	// already recorded and has not expired, so the caller must skip it.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Forget removes key so that a failed attempt can be retried
	Forget(ctx context.Context, key string) error
}

// Cache is a byte-oriented TTL cache for upstream responses
type Cache interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Store is implemented by both backends
type Store interface {
	IdempotencyStore
	Cache
	Close() error
}
