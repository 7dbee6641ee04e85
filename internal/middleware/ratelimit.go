package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/examdesk/examdesk-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-IP token bucket. Each client starts with a full
// bucket of `rate` tokens; whole-interval refills top it back up.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int
	interval time.Duration
}

type bucket struct {
	tokens   int
	refilled time.Time
}

// NewRateLimiter creates a limiter allowing `rate` requests per interval
// per client IP. A background sweep drops buckets idle for three
// intervals so the map does not grow with one-off clients.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}

	go func() {
		for range time.Tick(interval) {
			rl.sweep()
		}
	}()

	return rl
}

// Middleware returns a Gin middleware enforcing the limit by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		b, ok := rl.buckets[ip]
		if !ok {
			b = &bucket{tokens: rl.rate, refilled: time.Now()}
			rl.buckets[ip] = b
		}

		// Top up one full allowance per elapsed interval, capped at the
		// bucket size.
		if intervals := int(time.Since(b.refilled) / rl.interval); intervals > 0 {
			b.tokens += intervals * rl.rate
			if b.tokens > rl.rate {
				b.tokens = rl.rate
			}
			b.refilled = time.Now()
		}

		if b.tokens <= 0 {
			rl.mu.Unlock()
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		b.tokens--
		rl.mu.Unlock()
		c.Next()
	}
}

func (rl *RateLimiter) sweep() {
	cutoff := time.Now().Add(-3 * rl.interval)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if b.refilled.Before(cutoff) {
			delete(rl.buckets, ip)
		}
	}
}
