package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"resortbooking/internal/pkg/logger"
)

// RateLimit builds a per-client rate limiter from a formatted rate
// such as "100-M". It stores counters in redis when a client is
// available and falls back to an in-memory store otherwise, so a
// redis outage never takes requests down with it.
func RateLimit(formatted string, client *redis.Client) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		logger.Log.WithError(err).Warnf("invalid rate %q, rate limiting disabled", formatted)
		return func(c *gin.Context) { c.Next() }
	}

	var store limiter.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "resortbooking:ratelimit",
		})
		if err != nil {
			logger.Log.WithError(err).Warn("redis rate limit store unavailable, using memory store")
			store = memory.NewStore()
		}
	} else {
		store = memory.NewStore()
	}

	return mgin.NewMiddleware(limiter.New(store, rate))
}
