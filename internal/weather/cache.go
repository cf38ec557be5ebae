package weather

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheTTL = 10 * time.Minute

// CachedProvider keeps reports in redis and collapses concurrent lookups
// for the same location into one upstream call.
type CachedProvider struct {
	next   Provider
	rdb    *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewCachedProvider wraps next. With a nil rdb only the call collapsing applies.
func NewCachedProvider(next Provider, rdb *redis.Client, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{next: next, rdb: rdb, ttl: cacheTTL, logger: logger}
}

func (c *CachedProvider) Current(ctx context.Context, loc Location) (*Report, error) {
	key := "weather:" + loc.key()

	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var r Report
			if json.Unmarshal(raw, &r) == nil {
				return &r, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("weather cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		r, err := c.next.Current(ctx, loc)
		if err != nil {
			return nil, err
		}
		if c.rdb != nil {
			payload, _ := json.Marshal(r)
			if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
				c.logger.Warn("weather cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	r := *v.(*Report)
	return &r, nil
}
