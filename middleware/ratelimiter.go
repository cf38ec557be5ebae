package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// RateLimiter limits requests per client IP. Counters live in redis when a
// client is given so that several instances share one budget.
func RateLimiter(perMinute int, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 100
	}
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(perMinute),
	}

	var store limiter.Store = memory.NewStore()
	if rdb != nil {
		rs, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix:          "farmer_portal_limiter",
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		})
		if err != nil {
			logger.Warn("⚠️ redis limiter store unavailable, using memory store", zap.Error(err))
		} else {
			store = rs
		}
	}

	// 🚦 Gin-compatible middleware
	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}
