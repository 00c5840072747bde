package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"ternsnip/internal/port"
)

// SnippetCache is a bounded LRU of synthesized snippets with a TTL.
type SnippetCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	snippet   string
	ok        bool
	timestamp time.Time
}

func NewSnippetCache(maxSize int, ttl time.Duration) *SnippetCache {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SnippetCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(sig string) string {
	hash := sha256.Sum256([]byte(sig))
	return hex.EncodeToString(hash[:16])
}

// Get returns the cached result for sig. The second value reports whether
// sig was a function; the third whether there was a usable entry at all.
func (c *SnippetCache) Get(sig string) (string, bool, bool) {
	key := cacheKey(sig)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return "", false, false
	}

	if c.now().Sub(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return "", false, false
	}

	c.moveToEnd(key)
	return entry.snippet, entry.ok, true
}

// Put stores the result for sig, including negative results so leaf types
// are not reparsed.
func (c *SnippetCache) Put(sig, snippet string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(sig)
	entry := &cacheEntry{
		snippet:   snippet,
		ok:        ok,
		timestamp: c.now(),
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

func (c *SnippetCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *SnippetCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *SnippetCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *SnippetCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedExpander serves repeated signatures from a SnippetCache.
type CachedExpander struct {
	expander port.Expander
	cache    *SnippetCache
}

func NewCachedExpander(expander port.Expander, cache *SnippetCache) *CachedExpander {
	return &CachedExpander{
		expander: expander,
		cache:    cache,
	}
}

func (e *CachedExpander) Expand(sig string) (string, bool) {
	if snip, ok, hit := e.cache.Get(sig); hit {
		return snip, ok
	}

	snip, ok := e.expander.Expand(sig)
	e.cache.Put(sig, snip, ok)
	return snip, ok
}
