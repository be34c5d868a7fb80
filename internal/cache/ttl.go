// Package cache provides a small TTL cache for rendered read models.
package cache

import (
	"sync"
	"time"
)

// TTL holds a single value with an expiry. The donation list is the only
// thing the server caches, so there is no keyed map or eviction order,
// just one slot that goes stale.
type TTL[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	value     T
	expiresAt time.Time
	set       bool
}

func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{ttl: ttl}
}

// Get returns the cached value when it is still fresh.
func (c *TTL[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if !c.set || time.Now().After(c.expiresAt) {
		return zero, false
	}
	return c.value, true
}

// Set stores the value and restarts the TTL.
func (c *TTL[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.expiresAt = time.Now().Add(c.ttl)
	c.set = true
}

// Invalidate drops the cached value immediately.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.set = false
}
