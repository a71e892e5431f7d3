// Package cache holds rendered pair output keyed by record content hash.
package cache

import (
	"time"

	"github.com/dgallion1/tokmesh/internal/pipeline"
	gocache "github.com/patrickmn/go-cache"
)

// Entry is a cached transform result.
type Entry struct {
	Output []byte
	Counts pipeline.Counts
}

// ResultCache is an in-memory TTL cache backed by go-cache.
type ResultCache struct {
	cache *gocache.Cache
}

func New(ttl, cleanupInterval time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &ResultCache{cache: gocache.New(ttl, cleanupInterval)}
}

// Key derives the cache key for a named upload. The name takes part because
// it selects the decoder.
func Key(name string, data []byte) string {
	if name == "" {
		return pipeline.ContentHashHex(data)
	}
	return pipeline.ContentHashHex(data) + ":" + name
}

func (c *ResultCache) Get(key string) (Entry, bool) {
	v, found := c.cache.Get(key)
	if !found {
		return Entry{}, false
	}
	e, ok := v.(Entry)
	return e, ok
}

func (c *ResultCache) Set(key string, e Entry) {
	c.cache.Set(key, e, gocache.DefaultExpiration)
}

// Len returns the number of unexpired entries.
func (c *ResultCache) Len() int {
	return c.cache.ItemCount()
}
