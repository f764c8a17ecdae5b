package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"admincore/internal/infrastructure/ratelimit"
	"admincore/internal/shared/logger"
	"admincore/internal/shared/utils"
)

// RateLimitMiddleware throttles sensitive endpoints per client IP. The
// limiter is shared across instances through Redis and fails open when
// Redis is unreachable.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.Limiter, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit keys the window on the route scope and the client IP so that
// hammering the login endpoint does not exhaust the reset endpoint quota.
func (m *RateLimitMiddleware) Limit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:ip:%s", scope, c.ClientIP())

		allowed, err := m.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			m.logger.Warnw("rate limiter unavailable, allowing request", "error", err, "key", key)
			c.Next()
			return
		}

		if !allowed {
			m.logger.Warnw("rate limit exceeded", "scope", scope, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
