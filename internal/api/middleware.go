package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/sampleflix/sampleflix/internal/apperr"
	"github.com/sampleflix/sampleflix/internal/config"
	"github.com/sampleflix/sampleflix/internal/observability"
)

// RequestLogger middleware logs each request with a generated request id.
func RequestLogger(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		logger.Info("request", map[string]interface{}{
			"request_id": requestID,
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		})
	}
}

// ErrorHandler converts errors attached to the context into the uniform
// {"error": message} body. Anything that is not an AppError becomes a 500
// with a generic message so internals never leak.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperr.From(c.Errors.Last().Err)
		body := gin.H{"error": appErr.Message}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
		c.JSON(appErr.Status, body)
	}
}

// CORSMiddleware enables cross-origin requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// rateLimiterStorage tracks one token bucket per client, expiring idle
// entries so the map stays bounded.
type rateLimiterStorage struct {
	limiters map[string]*rate.Limiter
	expiry   map[string]time.Time
	config   config.RateLimitConfig
	mu       sync.Mutex
}

func newRateLimiterStorage(cfg config.RateLimitConfig) *rateLimiterStorage {
	return &rateLimiterStorage{
		limiters: make(map[string]*rate.Limiter),
		expiry:   make(map[string]time.Time),
		config:   cfg,
	}
}

func (s *rateLimiterStorage) getLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if limiter, exists := s.limiters[key]; exists && now.Before(s.expiry[key]) {
		s.expiry[key] = now.Add(s.config.Expiration)
		return limiter
	}

	// Expired or new; also sweep other stale entries while holding the
	// lock, keeping the storage bounded without a background goroutine.
	for k, deadline := range s.expiry {
		if now.After(deadline) {
			delete(s.limiters, k)
			delete(s.expiry, k)
		}
	}

	limiter := rate.NewLimiter(rate.Limit(s.config.Limit), s.config.Burst)
	s.limiters[key] = limiter
	s.expiry[key] = now.Add(s.config.Expiration)
	return limiter
}

// RateLimiter limits requests per client IP using token buckets.
func RateLimiter(cfg config.RateLimitConfig) gin.HandlerFunc {
	storage := newRateLimiterStorage(cfg)

	return func(c *gin.Context) {
		limiter := storage.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			limited := apperr.TooManyRequests()
			c.AbortWithStatusJSON(limited.Status, gin.H{"error": limited.Message})
			return
		}
		c.Next()
	}
}
