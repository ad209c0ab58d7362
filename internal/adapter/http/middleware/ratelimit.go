package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todosvc/internal/core/port"
	"todosvc/pkg/metrics"
)

type RateLimiter struct {
	store    port.SharedStore
	requests int
	window   time.Duration
	logger   *zap.Logger
	metrics  *metrics.AppMetrics
}

// NewRateLimiter enforces a fixed-window budget per client on the shared
// store, so every instance of the service draws from the same counters.
func NewRateLimiter(store port.SharedStore, requests int, window time.Duration, logger *zap.Logger, appMetrics *metrics.AppMetrics) *RateLimiter {
	return &RateLimiter{
		store:    store,
		requests: requests,
		window:   window,
		logger:   logger,
		metrics:  appMetrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		key := fmt.Sprintf("ratelimit:%s", c.ClientIP())

		count, err := rl.store.Increment(c.Request.Context(), key, rl.window)

		if err != nil {
			// Fail open: a broken counter store should not take the API down.
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("path", path),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := rl.requests - int(count)
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(rl.requests) {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(path)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", rl.requests),
				zap.Duration("window", rl.window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail":      "rate limit exceeded",
				"retry_after": int(rl.window.Seconds()),
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(path)
		}

		c.Next()
	}
}
