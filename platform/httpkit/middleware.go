// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"crypto/subtle"
	"net/http"
	"time"

	"leadgate_backend/platform/config"
	"leadgate_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// AdminKeyHeader carries the static admin API key. Access control proper is
// the surrounding platform's job; this only gates the settings surface.
const AdminKeyHeader = "X-Admin-Api-Key"

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS when serving TLS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// AdminKeyAuth rejects requests whose admin key header does not match the
// configured key. An empty configured key disables the surface entirely.
func AdminKeyAuth(cfg config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := cfg.GetAdminAPIKey()
		if key == "" {
			Error(c, http.StatusForbidden, "admin surface disabled", nil)
			c.Abort()
			return
		}
		provided := c.GetHeader(AdminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			Error(c, http.StatusUnauthorized, "invalid admin key", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimiter applies a global token-bucket limit, used on the public
// webhook endpoint so a misbehaving gateway cannot flood the pipeline.
type RateLimiter struct {
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewRateLimiter creates a rate limiter with the given refill rate and burst.
func NewRateLimiter(r rate.Limit, burst int, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(r, burst),
		log:     log,
	}
}

// Middleware returns the gin middleware enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter.Allow() {
			rl.log.RateLimitExceeded(c.ClientIP(), c.Request.URL.Path)
			Error(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
