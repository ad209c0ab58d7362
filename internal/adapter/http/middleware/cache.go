package middleware

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"todosvc/internal/core/port"
	"todosvc/pkg/metrics"
	. "todosvc/pkg/tracing"
)

type ResponseCache struct {
	store   port.SharedStore
	prefix  string
	ttl     time.Duration
	paths   map[string]bool
	logger  *zap.Logger
	metrics *metrics.AppMetrics
}

// requestScopedHeaders carry per-request values. They are never stored:
// replaying them on a hit would overwrite the current request's own values.
// Keys are in canonical MIME form, as http.Header stores them.
var requestScopedHeaders = map[string]bool{
	"X-Request-Id":                true,
	"X-Ratelimit-Limit":           true,
	"X-Ratelimit-Remaining":       true,
	"X-Cache":                     true,
	"Access-Control-Allow-Origin": true,
}

// CachedResponse is the serialized form stored in the shared store.
type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

// NewResponseCache memoizes GET responses for the configured route paths.
// Entries live in the shared store under the given prefix and expire after
// ttl. Writes never purge entries; staleness is bounded by the ttl alone.
func NewResponseCache(store port.SharedStore, prefix string, ttl time.Duration, paths []string, logger *zap.Logger, appMetrics *metrics.AppMetrics) *ResponseCache {
	pathSet := make(map[string]bool, len(paths))
	for _, p := range paths {
		pathSet[p] = true
	}

	return &ResponseCache{
		store:   store,
		prefix:  prefix,
		ttl:     ttl,
		paths:   pathSet,
		logger:  logger,
		metrics: appMetrics,
	}
}

func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if !rc.paths[path] {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := rc.generateCacheKey(c, path)

		raw, found, err := rc.store.Get(ctx, cacheKey)

		if err != nil {
			rc.logger.Error("Cache lookup failed",
				zap.String("cache_key", cacheKey),
				zap.Error(err))
		}

		if found {
			var cached CachedResponse

			if err := json.Unmarshal(raw, &cached); err == nil {
				_, span := CreateChildSpan(ctx, "cache.response.hit", []attribute.KeyValue{
					attribute.String("cache.key", cacheKey),
					attribute.String("cache.path", path),
					attribute.Int("cache.status_code", cached.StatusCode),
					attribute.Int("cache.body_size", len(cached.Body)),
				})
				span.End()

				if rc.metrics != nil {
					rc.metrics.RecordCacheHit(path)
				}

				rc.logger.Debug("Cache hit",
					zap.String("path", path),
					zap.String("cache_key", cacheKey),
					zap.Duration("age", time.Since(cached.Timestamp)))

				for key, values := range cached.Headers {
					for _, value := range values {
						c.Header(key, value)
					}
				}

				c.Header("X-Cache", "HIT")
				c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}

			// Undecodable entry; drop it and fall through to the handler.
			rc.store.Delete(ctx, cacheKey)
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(path)
		}

		rc.logger.Debug("Cache miss",
			zap.String("path", path),
			zap.String("cache_key", cacheKey))

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			statusCode:     c.Writer.Status(),
		}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 {
			headers := make(map[string][]string, len(writer.Header()))

			for key, values := range writer.Header() {
				if requestScopedHeaders[key] {
					continue
				}
				headers[key] = values
			}

			cached := CachedResponse{
				StatusCode: writer.statusCode,
				Headers:    headers,
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			}

			raw, err := json.Marshal(cached)

			if err != nil {
				return
			}

			_, span := CreateChildSpan(ctx, "cache.response.store", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.String("cache.path", path),
				attribute.Int("cache.body_size", len(cached.Body)),
				attribute.String("cache.ttl", rc.ttl.String()),
			})
			defer span.End()

			if err := rc.store.Set(ctx, cacheKey, raw, rc.ttl); err != nil {
				AddSpanError(span, err)
				rc.logger.Error("Cache store failed",
					zap.String("cache_key", cacheKey),
					zap.Error(err))
			}
		}
	}
}

// generateCacheKey fingerprints the request identity: concrete URL path
// plus raw query, so /todos/1 and /todos/2 never share an entry. The prefix
// namespaces entries away from the rate-limit counters and anything else in
// the shared store.
func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyString := c.Request.URL.Path

	if c.Request.URL.RawQuery != "" {
		keyString += "|" + c.Request.URL.RawQuery
	}

	hash := md5.Sum([]byte(keyString))

	return fmt.Sprintf("%s:%s:%x", rc.prefix, path, hash)
}

type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
