package cache

import (
	"context"
	"time"
)

// Cache is a small string cache used for aggregated analytics payloads.
// Two implementations exist: an in-process cache and a Redis-backed one,
// selected by configuration at startup.
type Cache interface {
	// Get retrieves a value by key; the second return value is false on miss
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value with the given TTL
	Set(ctx context.Context, key, value string, ttl time.Duration)

	// Delete removes a key
	Delete(ctx context.Context, key string)
}
