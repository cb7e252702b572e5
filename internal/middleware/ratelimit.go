package middleware

import (
	"strconv" // Header formatting
	"time"    // Retry delay

	"online_shop/internal/apperr" // Error envelope

	"github.com/gin-gonic/gin"           // Gin web framework
	"github.com/go-redis/redis_rate/v10" // GCRA limiter on Redis
	"github.com/redis/go-redis/v9"       // Redis client
	"github.com/sirupsen/logrus"         // Structured logging
)

// RateLimit limits requests per client IP and route to perMinute. A nil client or a
// non-positive rate disables limiting; Redis failures let the request through.
func RateLimit(rdb *redis.Client, perMinute int) gin.HandlerFunc {
	if rdb == nil || perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := redis_rate.NewLimiter(rdb)
	limit := redis_rate.PerMinute(perMinute)
	return func(c *gin.Context) {
		key := "ratelimit:" + c.FullPath() + ":" + c.ClientIP()
		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Rate limit check failed")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed == 0 {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Round(time.Second)/time.Second)))
			apperr.Respond(c, apperr.TooManyRequests("Too many requests, try again later"))
			return
		}
		c.Next()
	}
}
