package redisclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"resortbooking/internal/pkg/logger"
)

var (
	client *redis.Client
	once   sync.Once
)

// Get returns the shared Redis client, dialing on first use. A missing
// or unreachable REDIS_URL is an error, not a fatal: callers treat a nil
// client as "cache disabled".
func Get(ctx context.Context, redisURL string) (*redis.Client, error) {
	once.Do(func() {
		if redisURL == "" {
			return
		}

		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Log.Warnf("invalid REDIS_URL: %v", err)
			return
		}

		c := redis.NewClient(opt)
		if _, err := c.Ping(ctx).Result(); err != nil {
			logger.Log.Warnf("redis unreachable, caching disabled: %v", err)
			return
		}

		client = c
		logger.Log.Info("Connected to Redis")
	})

	if client == nil {
		return nil, fmt.Errorf("redis client not initialized; check REDIS_URL and connectivity")
	}
	return client, nil
}

func Close() {
	if client != nil {
		if err := client.Close(); err != nil {
			logger.Log.Errorf("error closing redis connection: %v", err)
		}
	}
}
