// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trading_backend/internal/feature/marketdata/domain/entity"
)

// MarketSource is the market-data service this decorator wraps.
type MarketSource interface {
	Quote(ctx context.Context, symbol string) (*entity.Quote, error)
	Profile(ctx context.Context, symbol string) (*entity.Profile, error)
	Chart(ctx context.Context, symbol string, days int) ([]entity.ChartPoint, error)
}

// CachingMarketRepository decorates a MarketSource with Redis caching.
// It implements the decorator pattern, transparently adding caching
// without modifying the underlying source. Cache failures are silent:
// a broken Redis degrades to direct provider calls, never to errors.
type CachingMarketRepository struct {
	inner     MarketSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingMarketRepository decorates a MarketSource with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses
// "market".
func NewCachingMarketRepository(rdb *redis.Client, ttl time.Duration, inner MarketSource, namespace string) *CachingMarketRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Quote retrieves a quote, checking cache first then falling back to the
// provider chain.
func (c *CachingMarketRepository) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	key := c.cacheKey("quote", symbol, 0)
	if out, ok := getCached[entity.Quote](ctx, c.rdb, key); ok {
		return out, nil
	}

	out, err := c.inner.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, out)
	return out, nil
}

// Profile retrieves a company profile, cache first.
func (c *CachingMarketRepository) Profile(ctx context.Context, symbol string) (*entity.Profile, error) {
	key := c.cacheKey("profile", symbol, 0)
	if out, ok := getCached[entity.Profile](ctx, c.rdb, key); ok {
		return out, nil
	}

	out, err := c.inner.Profile(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, out)
	return out, nil
}

// Chart retrieves a daily series, cache first. The day window is part of
// the key so different ranges never collide.
func (c *CachingMarketRepository) Chart(ctx context.Context, symbol string, days int) ([]entity.ChartPoint, error) {
	key := c.cacheKey("chart", symbol, days)
	if c.rdb != nil {
		if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			var out []entity.ChartPoint
			if err := json.Unmarshal(b, &out); err == nil {
				return out, nil
			}
			_ = c.rdb.Del(ctx, key).Err()
		}
	}

	out, err := c.inner.Chart(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, out)
	return out, nil
}

// getCached reads and decodes one cached value. A corrupted entry is
// deleted and treated as a miss.
func getCached[T any](ctx context.Context, rdb *redis.Client, key string) (*T, bool) {
	if rdb == nil {
		return nil, false
	}
	b, err := rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		_ = rdb.Del(ctx, key).Err()
		return nil, false
	}
	return &out, true
}

// setCached stores one value best effort.
func (c *CachingMarketRepository) setCached(ctx context.Context, key string, v any) {
	if c.rdb == nil {
		return
	}
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(kind, symbol string, days int) string {
	if days > 0 {
		return fmt.Sprintf("%s:%s:%s:%d", c.namespace, kind, safe(symbol), days)
	}
	return fmt.Sprintf("%s:%s:%s", c.namespace, kind, safe(symbol))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
