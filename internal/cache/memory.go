package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process memory with per-entry expiry.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL and
// janitor interval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
