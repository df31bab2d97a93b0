package video

import "sync"

type cacheKey struct {
	dir  string
	w, h int
}

// Cache is a concurrency-safe sequence cache keyed by directory and grid
// size. Failed loads are cached too, so a bad directory is read once.
type Cache struct {
	mu    sync.RWMutex
	items map[cacheKey]*cacheEntry
}

type cacheEntry struct {
	seq *Sequence
	err error
}

// NewCache creates an empty sequence cache.
func NewCache() *Cache {
	return &Cache{items: make(map[cacheKey]*cacheEntry)}
}

// Get returns the sequence for dir sampled at w×h, loading it on first use.
func (c *Cache) Get(dir string, w, h int) (*Sequence, error) {
	key := cacheKey{dir, w, h}

	// Fast path: read lock
	c.mu.RLock()
	if e, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return e.seq, e.err
	}
	c.mu.RUnlock()

	seq, err := Load(dir, w, h)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		return e.seq, e.err
	}
	c.items[key] = &cacheEntry{seq: seq, err: err}
	return seq, err
}
