package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// The fallback TTL sits just past the nightly cadence so a crashed
// worker's lock expires before the next scheduled refresh.
const fallbackLockTTL = 25 * time.Hour

// Lock ensures only one tier worker instance runs a refresh cycle.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock claims the refresh slot with SETNX under a TTL. Each acquire
// writes a fresh token so release cannot clobber a lock a slow instance
// lost and another one re-acquired.
type RedisLock struct {
	store redisStore
	key   string
	ttl   time.Duration
	token string
}

// NewRedisLock builds the worker lock on the given key.
func NewRedisLock(store redisStore, key string, ttl time.Duration) (*RedisLock, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = fallbackLockTTL
	}
	return &RedisLock{store: store, key: key, ttl: ttl}, nil
}

// Acquire claims the refresh slot until the TTL lapses or Release is
// called. It returns false without error when another instance holds it.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	claimed, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("claim refresh lock: %w", err)
	}
	if claimed {
		l.token = token
	}
	return claimed, nil
}

// Release drops the lock when this instance still owns it. An expired or
// reassigned lock is left alone.
func (l *RedisLock) Release(ctx context.Context) error {
	if l.token == "" {
		return nil
	}
	owned, err := l.stillOwned(ctx)
	if err != nil {
		return err
	}
	if !owned {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release refresh lock: %w", err)
	}
	l.token = ""
	return nil
}

func (l *RedisLock) stillOwned(ctx context.Context) (bool, error) {
	value, err := l.store.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read refresh lock owner: %w", err)
	}
	return value == l.token, nil
}
