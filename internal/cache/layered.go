package cache

import "time"

// LayeredCache fronts the disk cache with a memory cache. Reads hit
// memory first and promote disk hits; writes go to both layers.
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory-over-disk cache.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		// Promote with the memory layer's default TTL.
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	_ = c.disk.Delete(key)
	return nil
}

func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
