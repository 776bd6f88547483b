package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/contoso/university/internal/port/outbound"
	"github.com/gin-gonic/gin"
)

// RetryAfter is the header for retry time.
const RetryAfter = "Retry-After"

// RateLimitConfig holds rate limit configuration.
type RateLimitConfig struct {
	// KeyFunc generates the rate limit key from request.
	// Default uses client IP.
	KeyFunc func(*gin.Context) string
	// SkipFunc determines if the request should skip rate limiting.
	SkipFunc func(*gin.Context) bool
}

// RateLimit returns a middleware that limits requests using the given limiter.
// Limiter errors let the request through.
func RateLimit(limiter outbound.RateLimiterPort, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string {
			return "ip:" + c.ClientIP()
		}
	}

	return func(c *gin.Context) {
		if limiter == nil || (cfg.SkipFunc != nil && cfg.SkipFunc(c)) {
			c.Next()
			return
		}

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), cfg.KeyFunc(c))
		if err != nil || allowed {
			c.Next()
			return
		}

		if retryAfter > 0 {
			c.Header(RetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": gin.H{
				"code":    "RATE_LIMIT_EXCEEDED",
				"message": "Too many requests, please try again later",
			},
		})
	}
}
