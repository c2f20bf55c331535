package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/finlens/finlens/internal/model"
)

// MemoryCache holds derived statements in memory with TTL eviction.
// Statements are stored as pointers without serialization; they are
// never mutated after derivation.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a statement from the cache
func (c *MemoryCache) Get(key string) (*model.Statement, bool) {
	if val, found := c.cache.Get(key); found {
		if st, ok := val.(*model.Statement); ok {
			return st, true
		}
	}
	return nil, false
}

// Set stores a statement in the cache with the given TTL
func (c *MemoryCache) Set(key string, st *model.Statement, ttl time.Duration) error {
	c.cache.Set(key, st, ttl)
	return nil
}

// Delete removes a statement from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all statements from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
