package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the small caching surface the catalog needs. Lookups are
// best effort; a miss or a cache outage falls through to the database.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a redis client as a Cache. A nil client yields a
// no-op cache so the catalog works without redis.
func NewRedisCache(client *redis.Client) Cache {
	if client == nil {
		return noopCache{}
	}
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.client.Set(ctx, key, value, ttl)
}

func (c *redisCache) Del(ctx context.Context, keys ...string) {
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (string, bool) { return "", false }

func (noopCache) Set(context.Context, string, string, time.Duration) {}

func (noopCache) Del(context.Context, ...string) {}
