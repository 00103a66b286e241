package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldtrack/pkg/redis"
	"fieldtrack/pkg/response"
)

// RateLimit caps requests per caller and route within a sliding window.
// Callers are keyed by user id when authenticated, by client IP otherwise.
// A nil rdb or a redis error lets the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next()
			return
		}

		subject := c.GetString(ctxUserID)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := "rate_limit:" + subject + ":" + c.Request.Method + ":" + c.FullPath()

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
