// Package cache is a small byte cache used for dashboard summaries.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

type redisCache struct {
	rc *redis.Client
}

func NewRedisCache(rc *redis.Client) Cache {
	return &redisCache{rc: rc}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := c.rc.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return bs, err
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rc.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) DeletePrefix(ctx context.Context, prefix string) error {
	iter := c.rc.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rc.Del(ctx, keys...).Err()
}

type noopCache struct{}

// NewNoop returns a cache that stores nothing. Used when redis is not configured.
func NewNoop() Cache { return noopCache{} }

func (noopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (noopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (noopCache) DeletePrefix(context.Context, string) error { return nil }
