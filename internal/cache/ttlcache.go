// Package cache provides a small TTL-bounded memoization map for entity
// resolution. Entries expire lazily at read time; there is no background
// sweep. The cache is safe for concurrent use by simultaneous conversations:
// operations are O(1) under a single mutex with no nested calls while the
// lock is held.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL bounds how long a resolved identifier is trusted without
// re-validation against the backend.
const DefaultTTL = 300 * time.Second

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// TTL is a mutex-guarded map with per-entry lazy expiry. Keys are the
// whitespace-collapsed lookup string (accents preserved, see resolver docs).
type TTL[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]
	now     func() time.Time // overridable for tests
}

// New creates a cache with the given TTL. A non-positive ttl falls back to
// DefaultTTL.
func New[V any](ttl time.Duration) *TTL[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Get returns the cached value for key. An entry past its TTL reports a miss
// even though it is still stored; the stale value is never exposed.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.insertedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry wholesale and
// restarting its TTL window.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, insertedAt: c.now()}
}

// Clear drops all entries.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of stored entries, expired ones included.
// Used for cache-size metrics.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
