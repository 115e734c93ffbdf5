package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(time.Minute)

	clock := time.Now()
	cache.now = func() time.Time { return clock }

	cache.Put("k", Response{Content: "v"})

	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got.Content)

	// Advance past the TTL: the entry expires and is evicted.
	clock = clock.Add(2 * time.Minute)
	_, ok = cache.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheKeyIncludesModel(t *testing.T) {
	msgs := []Message{{Role: "user", Content: "prompt"}}

	a := cacheKeyFor(msgs, "model-a")
	b := cacheKeyFor(msgs, "model-b")
	assert.NotEqual(t, a, b)

	// Same messages and model produce the same key.
	assert.Equal(t, a, cacheKeyFor([]Message{{Role: "user", Content: "prompt"}}, "model-a"))
}
