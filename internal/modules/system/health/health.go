// Package health serves the liveness probe.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *redis.Client from internal/pkg/redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes mounts GET /health. cache may be nil when Redis is disabled.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, cache Pinger, started time.Time) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.PingContext(ctx) == nil

		body := gin.H{
			"database": dbOK,
			"uptime":   int64(time.Since(started).Seconds()),
		}
		healthy := dbOK
		if cache != nil {
			redisOK := cache.Ping(ctx) == nil
			body["redis"] = redisOK
			healthy = healthy && redisOK
		}

		code := http.StatusOK
		body["status"] = "ok"
		if !healthy {
			code = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
		c.JSON(code, body)
	})
}
