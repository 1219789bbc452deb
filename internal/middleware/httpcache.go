package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	pkgredis "github.com/coderhuBypassion/BriefBank/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	cacheStatusHeader   = "x-briefbank-cache"
	defaultHTTPCacheTTL = 15 * time.Second
	httpCacheMaxBody    = 1 << 20
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	Body        string `json:"body"`
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body     []byte
	overflow bool
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheBodyWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheBodyWriter) capture(data []byte) {
	if w.overflow {
		return
	}
	if len(w.body)+len(data) > httpCacheMaxBody {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

// HTTPCache serves anonymous GETs from Redis for ttl, keyed by the request
// URI. Authenticated requests always reach the handler and are marked
// private. Only complete 200 responses are stored; Redis errors fall through.
func HTTPCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultHTTPCacheTTL
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		if IsAuthenticated(c) {
			c.Header("Cache-Control", "private, no-store")
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := pkgredis.Key("http_cache", c.Request.URL.RequestURI())
		if hit, ok := readCachedResponse(c, rdb, key); ok {
			c.Header(cacheStatusHeader, "hit")
			c.Data(hit.Status, hit.ContentType, []byte(hit.Body))
			c.Abort()
			return
		}

		buffer := &cacheBodyWriter{ResponseWriter: c.Writer}
		c.Writer = buffer
		c.Header(cacheStatusHeader, "miss")
		c.Next()

		if c.Writer.Status() != http.StatusOK || buffer.overflow || len(buffer.body) == 0 {
			return
		}
		raw, err := json.Marshal(cachedResponse{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        base64.StdEncoding.EncodeToString(buffer.body),
		})
		if err != nil {
			return
		}
		_ = rdb.Set(ctx, key, raw, ttl).Err()
	}
}

func readCachedResponse(c *gin.Context, rdb *redis.Client, key string) (cachedResponse, bool) {
	raw, err := rdb.Get(c.Request.Context(), key).Bytes()
	if err != nil || len(raw) == 0 {
		return cachedResponse{}, false
	}
	var payload cachedResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return cachedResponse{}, false
	}
	body, err := base64.StdEncoding.DecodeString(payload.Body)
	if err != nil {
		return cachedResponse{}, false
	}
	payload.Body = string(body)
	if payload.ContentType == "" || !strings.Contains(payload.ContentType, "/") {
		payload.ContentType = "application/json; charset=utf-8"
	}
	return payload, true
}
