// Package cache provides pluggable caching for HTTP responses.
//
// The GitHub client stores discovery and manifest responses here so that
// repeated runs do not hammer the API. Three backends are provided:
//
//   - FileCache: on-disk cache for CLI usage (the default)
//   - RedisCache: shared cache for multi-machine setups
//   - NullCache: disabled caching, every request goes to the network
//
// All backends store opaque byte slices with a per-entry TTL; key hashing
// and layout are backend concerns.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
// Implementations must treat a missing or expired entry as a miss, never
// as an error.
type Cache interface {
	// Get retrieves a value. The second return reports whether the entry
	// was found and still fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
