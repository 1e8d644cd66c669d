package cache

import (
	"context"
	"time"
)

// Cache is the contract for the query cache layer.
// Implementations: in-memory (single process) and Redis (shared).
type Cache interface {
	// Get reads the value stored under key and unmarshals it into dest.
	// Returns found=false on a miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set marshals value to JSON and stores it under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching pattern ("prefix*").
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}
