package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"admincore/internal/shared/logger"
)

// RedisLimiter is a sliding-window limiter backed by a redis sorted set
// per key. Redis failures fail open: throttling is protection, not a
// correctness requirement, and a dead redis must not take logins down.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logger.Interface
}

func NewRedisLimiter(client *redis.Client, limit, windowSeconds int, log logger.Interface) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: time.Duration(windowSeconds) * time.Second,
		logger: log,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	windowStart := now.Add(-l.window).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: nowNano})
	pipe.Expire(ctx, redisKey, l.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
		return true, nil
	}

	return zcard.Val() < int64(l.limit), nil
}

// Reset clears the window for a key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, fmt.Sprintf("ratelimit:%s", key)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit key: %w", err)
	}
	return nil
}
