package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache_SetGet(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("a", "alpha")

	value, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", value)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", 1)
	now = now.Add(2 * time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestTTLCache_DisabledWithZeroTTL(t *testing.T) {
	c := New[int](0)

	c.Set("k", 1)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestTTLCache_DeleteAndClear(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}

func TestTTLCache_SetIfGeneration(t *testing.T) {
	c := New[string](time.Minute)

	gen := c.Generation()
	assert.True(t, c.SetIfGeneration("a", "fresh", gen))
	value, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "fresh", value)

	// A load that started before a Clear must not repopulate the cache
	stale := c.Generation()
	c.Clear()
	assert.False(t, c.SetIfGeneration("a", "stale", stale))
	_, ok = c.Get("a")
	assert.False(t, ok)

	assert.True(t, c.SetIfGeneration("a", "reloaded", c.Generation()))
}

func TestTTLCache_CleanExpired(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("old", 1)
	now = now.Add(30 * time.Second)
	c.Set("new", 2)
	now = now.Add(45 * time.Second)

	assert.Equal(t, 1, c.CleanExpired())
	_, ok := c.Get("new")
	assert.True(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			c.Set(key, i)
			c.Get(key)
			if i%10 == 0 {
				c.Clear()
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 5)
}
