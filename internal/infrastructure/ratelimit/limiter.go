package ratelimit

import "context"

// Limiter answers whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NopLimiter allows everything. Used when no redis is configured.
type NopLimiter struct{}

func (NopLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}
