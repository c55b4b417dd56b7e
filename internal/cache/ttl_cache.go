// Package cache provides a thread-safe cache with per-entry expiration.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTLCache is a thread-safe cache whose entries expire ttl after they were
// set. Expired entries are dropped lazily and when the cache is full.
type TTLCache[K comparable, V any] struct {
	mu       sync.RWMutex
	data     map[K]entry[V]
	ttl      time.Duration
	maxItems int
	now      func() time.Time
}

// New creates a TTLCache. A maxItems of zero means unbounded.
func New[K comparable, V any](ttl time.Duration, maxItems int) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data:     make(map[K]entry[V]),
		ttl:      ttl,
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Get returns the value for key if it is present and not expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expires) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key and restarts its TTL.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.data[key]; !exists && c.maxItems > 0 && len(c.data) >= c.maxItems {
		c.evictLocked(now)
	}
	c.data[key] = entry[V]{value: value, expires: now.Add(c.ttl)}
}

// evictLocked drops expired entries, or everything if none have expired.
// MUST be called with the write lock held.
func (c *TTLCache[K, V]) evictLocked(now time.Time) {
	for k, e := range c.data {
		if !now.Before(e.expires) {
			delete(c.data, k)
		}
	}
	if len(c.data) >= c.maxItems {
		c.data = make(map[K]entry[V])
	}
}

// Invalidate clears all cached data.
func (c *TTLCache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[K]entry[V])
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
