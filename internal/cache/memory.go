package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is a bounded in-process cache: least-recently-used eviction
// when capacity is exceeded, TTL expiry on top. Values are stored as JSON
// so Get/Set round-trip the same way the redis backend does.
type MemoryCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemoryCache creates a MemoryCache holding at most size entries, each
// expiring ttl after being written.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 128
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Get retrieves a value, unmarshalling it into value. Expired and evicted
// keys report ErrCacheMiss.
func (c *MemoryCache) Get(_ context.Context, key string, value interface{}) error {
	data, ok := c.lru.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return nil
}

// Set stores a value. The per-cache TTL applies; the ttl argument is
// accepted for interface compatibility but the expirable LRU uses its
// construction-time TTL.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}
	c.lru.Add(key, data)
	return nil
}

// Delete removes a key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Close releases nothing for the in-process backend.
func (c *MemoryCache) Close() error {
	return nil
}
