package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zescabedo/globalpayments-poc-sub001/internal/domain"
)

// Cache stores resolved site descriptors. A zero ttl keeps an entry until
// the process (or the cache backend) forgets it.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.SiteDescriptor, bool, error)
	Set(ctx context.Context, key string, site *domain.SiteDescriptor, ttl time.Duration) error
}

type memoryEntry struct {
	site      domain.SiteDescriptor
	expiresAt time.Time
}

// MemoryCache is an in-process Cache with per-entry expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty MemoryCache. now defaults to time.Now.
func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{entries: make(map[string]memoryEntry), now: now}
}

// Get returns a copy of the entry so callers cannot mutate the cache.
func (c *MemoryCache) Get(_ context.Context, key string) (*domain.SiteDescriptor, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	site := entry.site
	return &site, true, nil
}

// Set stores a copy of site. Concurrent writers for the same key are fine:
// the last write wins and every value is equivalent.
func (c *MemoryCache) Set(_ context.Context, key string, site *domain.SiteDescriptor, ttl time.Duration) error {
	entry := memoryEntry{site: *site}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// RedisCache shares site descriptors between replicas.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache stores entries under prefix.
func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get decodes a JSON entry.
func (c *RedisCache) Get(ctx context.Context, key string) (*domain.SiteDescriptor, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var site domain.SiteDescriptor
	if err = json.Unmarshal(raw, &site); err != nil {
		return nil, false, fmt.Errorf("decode cached site %s: %w", key, err)
	}
	return &site, true, nil
}

// Set encodes site as JSON. ttl 0 stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, site *domain.SiteDescriptor, ttl time.Duration) error {
	raw, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("encode site %s: %w", key, err)
	}
	if err = c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
