package cache

import (
	"time"

	"github.com/finlens/finlens/internal/model"
)

// LayeredCache combines the memory and disk backends: memory answers
// repeat lookups within a session, disk survives restarts
type LayeredCache struct {
	memory Backend
	disk   Backend
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory first, then disk. A disk hit is promoted to memory.
func (c *LayeredCache) Get(key string) (*model.Statement, bool) {
	if st, found := c.memory.Get(key); found {
		return st, true
	}

	if st, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, st, 0) // default TTL
		return st, true
	}

	return nil, false
}

// Set stores a statement in both layers
func (c *LayeredCache) Set(key string, st *model.Statement, ttl time.Duration) error {
	if err := c.memory.Set(key, st, ttl); err != nil {
		return err
	}
	return c.disk.Set(key, st, ttl)
}

// Delete removes a statement from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	_ = c.disk.Delete(key)
	return nil
}

// Clear removes all statements from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	_ = c.disk.Clear()
	return nil
}
