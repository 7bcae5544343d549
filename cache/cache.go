package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	cache *cache.Cache
}

func New() *Cache {
	return &Cache{
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// NewWithExpiration creates a cache with the given default TTL. A negative
// TTL keeps entries until the process exits.
func NewWithExpiration(defaultExpiration, cleanupInterval time.Duration) *Cache {
	return &Cache{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *Cache) SetDefault(key string, value interface{}) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}

// SetPermanent stores a value that never expires.
func (c *Cache) SetPermanent(key string, value interface{}) {
	c.cache.Set(key, value, cache.NoExpiration)
}
