// Package cache stores rendered storefront pages and drops them when the
// data behind them changes.
package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "page:"

// Invalidator drops cached renderings. Failures are logged, not returned.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)

	// InvalidateAll drops every cached page, for changes shown on all of them.
	InvalidateAll(ctx context.Context)
}

// PageCache is a byte cache of rendered pages keyed by path and query.
type PageCache interface {
	Invalidator
	Get(ctx context.Context, path, rawQuery string) ([]byte, bool)
	Set(ctx context.Context, path, rawQuery string, page []byte)
}

// Key is the Redis key of one rendering of path.
func Key(path, rawQuery string) string {
	return keyPrefix + path + "|" + rawQuery
}

// RedisCache implements PageCache on Redis.
type RedisCache struct {
	client   *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
	requests *prometheus.CounterVec
}

// NewRedisCache creates a RedisCache. requests may be nil; when set it is
// incremented with label "hit", "miss" or "error".
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger, requests *prometheus.CounterVec) *RedisCache {
	return &RedisCache{
		client:   client,
		ttl:      ttl,
		logger:   logger.Named("page_cache"),
		requests: requests,
	}
}

// Get returns the cached page, if any.
func (c *RedisCache) Get(ctx context.Context, path, rawQuery string) ([]byte, bool) {
	page, err := c.client.Get(ctx, Key(path, rawQuery)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.count("miss")
		return nil, false
	}
	if err != nil {
		c.logger.Warn("page cache read failed", zap.String("path", path), zap.Error(err))
		c.count("error")
		return nil, false
	}
	c.count("hit")
	return page, true
}

// Set stores page for the cache TTL.
func (c *RedisCache) Set(ctx context.Context, path, rawQuery string, page []byte) {
	if err := c.client.Set(ctx, Key(path, rawQuery), page, c.ttl).Err(); err != nil {
		c.logger.Warn("page cache write failed", zap.String("path", path), zap.Error(err))
	}
}

// Invalidate deletes every cached rendering of each path, whatever its query.
func (c *RedisCache) Invalidate(ctx context.Context, paths ...string) {
	for _, path := range paths {
		c.deleteMatching(ctx, keyPrefix+escapeGlob(path)+"|*", path)
	}
}

// InvalidateAll deletes every cached page.
func (c *RedisCache) InvalidateAll(ctx context.Context) {
	c.deleteMatching(ctx, keyPrefix+"*", "*")
}

func (c *RedisCache) deleteMatching(ctx context.Context, pattern, path string) {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("page cache scan failed", zap.String("path", path), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("page cache invalidation failed", zap.String("path", path), zap.Error(err))
		return
	}
	c.logger.Debug("invalidated cached pages", zap.String("path", path), zap.Int("keys", len(keys)))
}

func (c *RedisCache) count(result string) {
	if c.requests != nil {
		c.requests.WithLabelValues(result).Inc()
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

// Nop is a PageCache that caches nothing. Used when Redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (Nop) Set(context.Context, string, string, []byte)        {}
func (Nop) Invalidate(context.Context, ...string)              {}
func (Nop) InvalidateAll(context.Context)                      {}
