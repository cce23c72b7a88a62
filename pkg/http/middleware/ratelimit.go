package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// RateLimiter is a per-key token bucket.
type RateLimiter struct {
	mu sync.Mutex
	m  map[string]*bucket

	capacity float64
	refill   float64
}

// NewRateLimiter creates a limiter allowing `capacity` burst and
// `refillPerSec` sustained requests per key.
func NewRateLimiter(capacity, refillPerSec float64) *RateLimiter {
	return &RateLimiter{m: make(map[string]*bucket), capacity: capacity, refill: refillPerSec}
}

// Allow returns true if one token can be consumed for key.
func (l *RateLimiter) Allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, capacity: l.capacity, refillRate: l.refill, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// RateLimit rejects requests exceeding the per-client-IP token bucket with 429.
func RateLimit(l *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": "Too Many Requests",
				})
			}
			return next(c)
		}
	}
}
