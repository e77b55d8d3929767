package middleware

import (
	"fmt"
	"strconv"

	"github.com/crm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// NewRateLimiter builds a limiter for a formatted rate such as "10-M".
// Counters live in Redis when a client is given so that every instance
// shares them, and in process memory otherwise.
func NewRateLimiter(formatted, prefix string, client *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", formatted, err)
	}
	return NewRateLimiterWithRate(rate, prefix, client)
}

// NewRateLimiterWithRate builds a limiter allowing rate.Limit requests per rate.Period
func NewRateLimiterWithRate(rate limiter.Rate, prefix string, client *redis.Client) (*limiter.Limiter, error) {
	if rate.Limit <= 0 || rate.Period <= 0 {
		return nil, fmt.Errorf("invalid rate: %d per %s", rate.Limit, rate.Period)
	}

	options := limiter.StoreOptions{Prefix: prefix, MaxRetry: 3}
	if client == nil {
		return limiter.New(memory.NewStoreWithOptions(options), rate), nil
	}

	store, err := sredis.NewStoreWithOptions(client, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}
	return limiter.New(store, rate), nil
}

// RateLimit throttles requests per client IP
func RateLimit(l *limiter.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(l, logger, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey throttles requests per key. A failing store lets the
// request through.
func RateLimitByKey(l *limiter.Limiter, logger *zap.Logger, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		lctx, err := l.Get(c.Request.Context(), key)
		if err != nil {
			logger.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			logger.Warn("Rate limit exceeded", zap.String("key", key), zap.String("path", c.Request.URL.Path))
			abortWithError(c, dto.ErrCodeRateLimited, "Too many requests. Please try again later.")
			return
		}

		c.Next()
	}
}
