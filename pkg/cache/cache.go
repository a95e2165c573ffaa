package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store is the minimal key/value surface the cache rides on. Get
// reports a miss through the boolean rather than a sentinel error so
// backends with different miss conventions can adapt cleanly.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cache is the injected TTL-cache capability handed to callers that
// want to memoize derived views. Values are stored as JSON.
type Cache struct {
	store Store
}

// New wraps a Store in the cache capability.
func New(store Store) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	return &Cache{store: store}, nil
}

// Get loads the value at key into dest. Returns false on a miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value at key for the provided TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, string(raw), ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete drops the key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.store.Del(ctx, key)
}

// GetOrSet returns the cached value at key, or runs producer and caches
// its result for ttl. A cache backend failure falls through to the
// producer so callers never fail on cache trouble alone.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, dest any, producer func(ctx context.Context) (any, error)) error {
	found, err := c.Get(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	value, err := producer(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	// Best-effort write; the produced value is still returned on failure.
	_ = c.store.Set(ctx, key, string(raw), ttl)

	return json.Unmarshal(raw, dest)
}
