// Package cache provides a short-TTL memoization layer in front of
// collection reads. It has no automatic write-through invalidation:
// components that perform a structural write must call Clear before the
// next read is expected to observe the change.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL bounds how stale a cached read may be when no write occurs.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
}

type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// New creates a cache with the given TTL. A non-positive ttl falls back
// to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if it is still within the TTL
// window; expired entries are evicted on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value and opportunistically sweeps all expired entries.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = entry{value: value, storedAt: now}
}

// Clear drops everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of live entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
