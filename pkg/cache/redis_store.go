package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/loomery-io/loomery-backend/pkg/redis"
)

// RedisStore adapts the shared redis client to the cache Store surface.
type RedisStore struct {
	client *pkgredis.Client
}

// NewRedisStore wraps a redis client.
func NewRedisStore(client *pkgredis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

// Get translates the driver's miss sentinel into the found boolean.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.client.CacheKey(key))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set writes the value under the namespaced cache key.
func (s *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.client.CacheKey(key), value, ttl)
}

// Del removes the namespaced cache keys.
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	namespaced := make([]string, 0, len(keys))
	for _, key := range keys {
		namespaced = append(namespaced, s.client.CacheKey(key))
	}
	return s.client.Del(ctx, namespaced...)
}
