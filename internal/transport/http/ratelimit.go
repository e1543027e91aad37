package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/light-bringer/procat-web/internal/pkg/clock"
)

const rateLimitPrefix = "rate_limit:"

// Limiter decides whether one more request from key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RedisLimiter is a fixed-window counter shared by every server instance.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	period time.Duration
	logger *zap.Logger
}

// NewRedisLimiter allows limit requests per key and period.
func NewRedisLimiter(client *redis.Client, limit int, period time.Duration, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		period: period,
		logger: logger.Named("rate_limit"),
	}
}

// Allow counts the request. Redis failures let it through.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	k := rateLimitPrefix + key
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		l.logger.Warn("rate limit check failed", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, k, l.period).Err(); err != nil {
			l.logger.Warn("failed to set rate limit window", zap.Error(err))
		}
	}
	return count <= l.limit
}

// localIdleTTL is how long a key may stay unused before its bucket is
// dropped. A bucket idle that long has refilled completely.
const localIdleTTL = 2 * time.Minute

// LocalLimiter is a per-process token bucket per key, used without Redis.
// Idle buckets are swept during Allow, so memory tracks active clients only.
type LocalLimiter struct {
	limit rate.Limit
	burst int
	clock clock.Clock

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows perMinute requests per key, refilled evenly.
// perMinute must be positive.
func NewLocalLimiter(perMinute int) *LocalLimiter {
	return newLocalLimiter(perMinute, clock.NewRealClock())
}

func newLocalLimiter(perMinute int, clk clock.Clock) *LocalLimiter {
	return &LocalLimiter{
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		clock:     clk,
		buckets:   make(map[string]*bucket),
		lastSweep: clk.Now(),
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= localIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) >= localIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// size reports the number of tracked keys.
func (l *LocalLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit rejects clients over the limit with 429. A nil limiter disables it.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.Allow(c.Request.Context(), c.ClientIP()) {
			c.Next()
			return
		}
		c.String(http.StatusTooManyRequests, "too many attempts, try again in a minute")
		c.Abort()
	}
}
