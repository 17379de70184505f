// Package httpkit provides HTTP middleware infrastructure for the fake
// Works backend.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"
	"sync"
	"time"

	"works_uploader/platform/apperr"
	"works_uploader/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// ContextSessionKey is the gin context key for the resolved session cookies.
	ContextSessionKey = "session"
	// HeaderRequestID echoes the request ID assigned by RequestID.
	HeaderRequestID = "X-Request-Id"
)

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

// RequestID assigns every request an ID and stores it on the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := c.Request.Context()
		c.Request = c.Request.WithContext(contextWithRequestID(ctx, id))
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// IPRateLimiter manages per-IP rate limiters.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

// NewPerMinuteRateLimiter allows perMinute requests per minute per IP with an
// equal burst. perMinute <= 0 disables limiting.
func NewPerMinuteRateLimiter(perMinute int, log *logger.Logger) *IPRateLimiter {
	if perMinute <= 0 {
		return NewIPRateLimiter(rate.Inf, 0, log)
	}
	return NewIPRateLimiter(rate.Limit(float64(perMinute)/60.0), perMinute, log)
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	limiter, exists := i.limiters.Load(ip)
	if !exists {
		newLimiter := rate.NewLimiter(i.rate, i.burst)
		actual, _ := i.limiters.LoadOrStore(ip, newLimiter)
		return actual.(*rate.Limiter)
	}
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter := i.getLimiter(ip)

		if !limiter.Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// RequireCookies rejects requests missing any of the named cookies and stores
// the presented cookies on the gin context under ContextSessionKey. With no
// names, any single cookie is accepted.
func RequireCookies(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(names) == 0 {
			cookies := c.Request.Cookies()
			if len(cookies) == 0 {
				HandleError(c, apperr.Unauthorized("missing session cookies"))
				c.Abort()
				return
			}
			session := make(map[string]string, len(cookies))
			for _, ck := range cookies {
				session[ck.Name] = ck.Value
			}
			c.Set(ContextSessionKey, session)
			c.Next()
			return
		}

		session := make(map[string]string, len(names))
		for _, name := range names {
			value, err := c.Cookie(name)
			if err != nil || value == "" {
				HandleError(c, apperr.Unauthorized("missing session cookie "+name))
				c.Abort()
				return
			}
			session[name] = value
		}
		c.Set(ContextSessionKey, session)
		c.Next()
	}
}
