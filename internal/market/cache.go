package market

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheTTL = 30 * time.Minute

// CachedProvider keeps price lists in redis.
type CachedProvider struct {
	next   Provider
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProvider(next Provider, rdb *redis.Client, logger *zap.Logger) Provider {
	if rdb == nil {
		return next
	}
	return &CachedProvider{next: next, rdb: rdb, ttl: cacheTTL, logger: logger}
}

func (c *CachedProvider) Prices(ctx context.Context, state, district string) ([]Price, error) {
	key := "market:" + stateSlug(state) + ":" + strings.ToLower(district)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var prices []Price
		if json.Unmarshal(raw, &prices) == nil {
			return prices, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("market cache read failed", zap.String("key", key), zap.Error(err))
	}

	prices, err := c.next.Prices(ctx, state, district)
	if err != nil {
		return nil, err
	}
	payload, _ := json.Marshal(prices)
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("market cache write failed", zap.String("key", key), zap.Error(err))
	}
	return prices, nil
}
