// Package cache provides the persistent query-result cache. It is a pure
// memoization layer: a cold or broken cache only costs extra API calls.
package cache

import (
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when no live entry exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the interface all cache implementations satisfy. Values are
// stored as JSON.
type Cache interface {
	// Get retrieves a value from the cache into value.
	Get(key string, value any) error

	// Set stores a value in the cache. A ttl of zero means no expiry.
	Set(key string, value any, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(key string) error

	// Close releases the cache's resources.
	Close() error
}
