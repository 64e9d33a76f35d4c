// Package cache stores repaired sequences and reports between runs.
//
// A [Cache] is a flat byte store with per-entry TTL. Three backends exist:
//   - [FileCache]: sharded JSON files under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the HTTP server
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are produced by a [Keyer], never built by hand, so that every key
// covers the graph content, the sequence and the search options that affect
// the result.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// DefaultTTL is the expiration used for repair results.
const DefaultTTL = 7 * 24 * time.Hour
