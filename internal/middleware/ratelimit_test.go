package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, do("203.0.113.1:1000"))
	assert.Equal(t, http.StatusNoContent, do("203.0.113.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("203.0.113.1:1002"))

	assert.Equal(t, http.StatusNoContent, do("203.0.113.2:1000"), "each client has its own bucket")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	rl.idle = time.Minute

	rl.limiter("198.51.100.1")
	rl.limiter("198.51.100.2")
	rl.limiters["198.51.100.1"].lastSeen = time.Now().Add(-2 * time.Minute)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "198.51.100.2")
}

func TestRateLimiter_RunCleanupStops(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		rl.RunCleanup(time.Millisecond, stop)
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after stop")
	}
}
