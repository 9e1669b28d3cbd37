package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/internal/logger"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per user in fixed redis windows.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	log    *logger.Logger
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		log:    log.With("component", "RateLimiter", "prefix", config.KeyPrefix),
	}
}

// NewRecipeCreationRateLimiter limits how many recipes one user may publish per window.
func NewRecipeCreationRateLimiter(redisClient *redis.Client, limit int, window time.Duration, log *logger.Logger) *RateLimiter {
	return NewRateLimiter(redisClient, RateLimitConfig{
		Window:    window,
		Limit:     limit,
		KeyPrefix: "foodgram:rate_limit:recipe_creation",
	}, log)
}

// Config returns the limiter settings.
func (rl *RateLimiter) Config() RateLimitConfig {
	return rl.config
}

// RateLimitMiddleware enforces the limit for the authenticated user. It must
// run after AuthMiddleware. Redis failures let the request through.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := Viewer(c)
		if !viewer.Authenticated {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}

		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), viewer.UserID.String())
		if err != nil {
			rl.log.Warn("Rate limit check failed", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": fmt.Sprintf("Request limit of %d per %v exceeded.", rl.config.Limit, rl.config.Window),
			})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) key(userID string, now time.Time) (string, time.Time) {
	windowStart := now.Truncate(rl.config.Window)
	return fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, userID, windowStart.Unix()), windowStart
}

// IsAllowed counts one request from userID.
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, userID string) (bool, int, time.Time, error) {
	key, windowStart := rl.key(userID, time.Now())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// GetRemainingRequests returns the number of remaining requests for a user
// without counting one.
func (rl *RateLimiter) GetRemainingRequests(ctx context.Context, userID string) (int, time.Time, error) {
	key, windowStart := rl.key(userID, time.Now())
	resetTime := windowStart.Add(rl.config.Window)

	count, err := rl.redis.Get(ctx, key).Int()
	if err == redis.Nil {
		return rl.config.Limit, resetTime, nil
	}
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetTime, nil
}
