package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rate int, interval time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(rate, interval).Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doPing(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterExhaustsPerIP(t *testing.T) {
	r := newLimitedRouter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if code := doPing(r, "10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, code)
		}
	}
	if code := doPing(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("over-limit status = %d, want 429", code)
	}

	// A different client keeps its own bucket.
	if code := doPing(r, "10.0.0.2"); code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", code)
	}
}

func TestRateLimiterRefillsAfterInterval(t *testing.T) {
	r := newLimitedRouter(1, 10*time.Millisecond)

	if code := doPing(r, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("first request status %d", code)
	}
	if code := doPing(r, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("second request status %d, want 429", code)
	}

	time.Sleep(25 * time.Millisecond)
	if code := doPing(r, "10.0.0.1"); code != http.StatusOK {
		t.Errorf("post-refill status = %d, want 200", code)
	}
}
