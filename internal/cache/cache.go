package cache

import (
	"context"
	"time"
)

// Cache is the TTL key-value store backing session tokens and SMS
// verification codes. The memory implementation serves development and
// tests; Redis serves multi-instance deployments.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// TTL returns the remaining lifetime of a key, zero if absent.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Close releases any resources held by the cache.
	Close() error
}

// CacheError is a sentinel error type for cache failures.
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)
