package cache

import (
	"sync"
	"time"
)

// TTLCache is a generic in-memory cache whose entries expire after a fixed TTL
type TTLCache[T any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry[T]
	now   func() time.Time

	// generation is bumped by Clear so fills started earlier are dropped
	generation uint64
}

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// New creates a TTL cache. A non-positive ttl disables caching.
func New[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
		now:   time.Now,
	}
}

// Get retrieves a value from the cache
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	var zero T
	if !exists {
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		c.Delete(key)
		return zero, false
	}
	return item.data, true
}

// Set stores a value in the cache
func (c *TTLCache[T]) Set(key string, data T) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{data: data, expiresAt: c.now().Add(c.ttl)}
}

// Generation returns the current invalidation generation. Read it before
// loading a value and pass it to SetIfGeneration.
func (c *TTLCache[T]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// SetIfGeneration stores a value only if the cache has not been cleared
// since generation was read. It reports whether the value was stored.
func (c *TTLCache[T]) SetIfGeneration(key string, data T, generation uint64) bool {
	if c.ttl <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		return false
	}
	c.items[key] = entry[T]{data: data, expiresAt: c.now().Add(c.ttl)}
	return true
}

// Delete removes a key from the cache
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes every entry
func (c *TTLCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]entry[T])
	c.generation++
}

// CleanExpired removes all expired entries and returns count of removed items
func (c *TTLCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Size returns the current number of items in the cache
func (c *TTLCache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
