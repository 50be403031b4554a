package ingest

import (
	"sync"
	"time"
)

// responseCache is a best-effort TTL cache for raw feed payloads, keyed by
// endpoint. Each source only touches its own entry, so no cross-key
// coordination is needed. Cache misses or failures only cost a redundant
// network call, never correctness.
type responseCache struct {
	mu    sync.RWMutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

func newResponseCache() *responseCache {
	return &responseCache{items: make(map[string]cacheEntry)}
}

func (c *responseCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.body, true
}

func (c *responseCache) Set(key string, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.items[key] = cacheEntry{body: body, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Purge drops expired entries. Called opportunistically between rounds.
func (c *responseCache) Purge() {
	now := time.Now()
	c.mu.Lock()
	for key, entry := range c.items {
		if now.After(entry.expiresAt) {
			delete(c.items, key)
		}
	}
	c.mu.Unlock()
}
