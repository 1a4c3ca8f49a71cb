package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process Cache for development, tests and
// single-instance deployments. Expired entries are swept by a background
// goroutine once a minute.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	stopSweep chan struct{}
	stopOnce  sync.Once
}

// NewMemory creates a new in-memory cache with automatic cleanup.
func NewMemory() *Memory {
	c := &Memory{
		entries:   make(map[string]memoryEntry),
		stopSweep: make(chan struct{}),
	}
	go c.sweep(time.Minute)
	return c
}

// Get retrieves a value by key.
func (c *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a value with the given TTL.
func (c *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	c.entries[key] = memoryEntry{value: v, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Delete removes a value by key.
func (c *Memory) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Exists checks if a key exists and is not expired.
func (c *Memory) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return ok && time.Now().Before(entry.expiresAt), nil
}

// TTL returns the remaining lifetime of a key, zero if absent or expired.
func (c *Memory) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return 0, nil
	}
	remaining := time.Until(entry.expiresAt)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// Close stops the background sweep goroutine.
func (c *Memory) Close() error {
	c.stopOnce.Do(func() { close(c.stopSweep) })
	return nil
}

func (c *Memory) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopSweep:
			return
		}
	}
}

var _ Cache = (*Memory)(nil)
