package scrape

import (
	"sync"
	"time"
)

type cacheItem struct {
	meta      PageMeta
	expiresAt time.Time
}

// metaCache remembers extraction results so repeat runs within the TTL do
// not refetch the same article pages.
type metaCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
	ttl   time.Duration
}

func newMetaCache(ttl time.Duration) *metaCache {
	return &metaCache{
		items: make(map[string]cacheItem),
		ttl:   ttl,
	}
}

func (c *metaCache) get(url string) (PageMeta, bool) {
	c.mu.RLock()
	item, exists := c.items[url]
	c.mu.RUnlock()

	if !exists || time.Now().After(item.expiresAt) {
		return PageMeta{}, false
	}
	return item.meta, true
}

func (c *metaCache) set(url string, meta PageMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[url] = cacheItem{
		meta:      meta,
		expiresAt: time.Now().Add(c.ttl),
	}

	// Opportunistic cleanup keeps the map from growing between runs.
	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}
