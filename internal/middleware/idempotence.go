package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	pkgredis "github.com/coderhuBypassion/BriefBank/internal/pkg/redis"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	idempotenceHeader = "x-idempotence"
	// Upper bound on how long a crashed request can hold its key.
	idempotenceTTL = 60 * time.Second
)

// Idempotence rejects a repeat of the same POST while the first is still in
// flight. The key is released when the request finishes, whatever the
// outcome, so a later retry (a reopened checkout) goes through. Without an
// x-idempotence header the key is derived from the caller, route and body.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key, err := idempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}
		redisKey := pkgredis.Key("idempotence", key)
		ctx := c.Request.Context()

		ok, err := rdb.SetNX(ctx, redisKey, 1, idempotenceTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !ok {
			response.Conflict(c, "the same request is already being processed")
			return
		}
		defer rdb.Del(context.WithoutCancel(ctx), redisKey)

		c.Next()
	}
}

func idempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	subject := CurrentSubject(c)
	if subject == "" {
		subject = c.ClientIP()
	}
	if subject == "" {
		return "", nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	h := sha256.New()
	for _, part := range []string{subject, c.Request.Method, c.Request.URL.Path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}
