package middleware

import (
	"net/http"
	"strconv"
	"time"

	pkgredis "github.com/coderhuBypassion/BriefBank/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	rateLimitMax    = 50
	rateLimitWindow = time.Second
)

// RateLimit caps anonymous traffic at rateLimitMax requests per second per
// client IP using a fixed Redis window. Authenticated callers are not limited.
// Redis errors fail open.
func RateLimit(rdb *redis.Client, log *zap.Logger) gin.HandlerFunc {
	return rateLimit(rdb, log, rateLimitMax)
}

func rateLimit(rdb *redis.Client, log *zap.Logger, max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := pkgredis.Key("rate_limit", ip, strconv.FormatInt(time.Now().Unix(), 10))

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.PExpire(ctx, key, rateLimitWindow+time.Second)
		}

		if count > max {
			if count == max+1 && log != nil {
				log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			}
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
