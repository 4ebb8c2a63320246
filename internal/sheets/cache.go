package sheets

import (
	"sync"
	"time"
)

// cacheEntry holds one memoized CSV body.
type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// fetchCache memoizes fetched CSV bodies for a fixed duration, keyed by URL.
// Expired entries are dropped lazily on access.
type fetchCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newFetchCache(ttl time.Duration) *fetchCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &fetchCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *fetchCache) get(url string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, url)
		c.mu.Unlock()
		return nil, false
	}
	return entry.body, true
}

func (c *fetchCache) set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{
		body:      body,
		expiresAt: time.Now().Add(c.ttl),
	}
}
