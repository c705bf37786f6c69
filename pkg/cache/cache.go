// Package cache provides pluggable byte caches for registry HTTP responses
// and server-side search results.
//
// Backends:
//   - [FileCache]: hash-sharded JSON files, used by the CLI
//   - [MemoryCache]: bounded in-process LRU, used by the HTTP server
//   - [RedisCache]: shared cache for multiple server replicas
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer] so every backend sees the same layout.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional time-to-live.
// A ttl of zero means the entry does not expire.
type Cache interface {
	// Get returns the payload for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
// Clear reports how many entries were removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// NullCache disables caching: every Get misses and writes are dropped.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                       { return nil }
func (*NullCache) Close() error                                               { return nil }
