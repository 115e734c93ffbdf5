package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long an identical (prompt, model) pair may
// be served from cache.
const DefaultCacheTTL = time.Hour

// Cache is a TTL cache for completion responses, keyed by the exact
// prompt text plus model id. Entries expire after the TTL; there is no
// other invalidation. Safe for use across concurrent sessions.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry

	// now is replaceable for tests.
	now func() time.Time
}

type cacheEntry struct {
	resp    Response
	expires time.Time
}

// NewCache creates a cache with the given TTL. A non-positive TTL uses
// DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached response for key, if present and unexpired.
func (c *Cache) Get(key string) (Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Response{}, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, key)
		return Response{}, false
	}
	return entry.resp, true
}

// Put stores a response under key with the cache TTL.
func (c *Cache) Put(key string, resp Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		resp:    resp,
		expires: c.now().Add(c.ttl),
	}
}

// Len returns the number of cached entries, including expired ones not
// yet evicted by a Get.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKeyFor derives the cache key from the exact message contents and
// model id. Hashing keeps keys bounded for long prompts.
func cacheKeyFor(messages []Message, model string) string {
	h := sha256.New()
	for _, msg := range messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte{0})
		h.Write([]byte(msg.Content))
		h.Write([]byte{0})
	}
	h.Write([]byte(model))
	return hex.EncodeToString(h.Sum(nil))
}
