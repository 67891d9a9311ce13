package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ideahub/internal/services"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.Use(rl.Handler())
	r.POST("/ideas/i1/vote", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/ideas/i1/vote", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/ideas/i1/vote", nil).Code)

	w := serve(r, http.MethodPost, "/ideas/i1/vote", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, slow down"}`, w.Body.String())
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	newRouter := func(id *services.Identity) *gin.Engine {
		r := gin.New()
		r.Use(withIdentity(id), rl.Handler())
		r.POST("/vote", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	alice := newRouter(&services.Identity{UserID: "alice"})
	bob := newRouter(&services.Identity{UserID: "bob"})

	assert.Equal(t, http.StatusOK, serve(alice, http.MethodPost, "/vote", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(alice, http.MethodPost, "/vote", nil).Code)
	assert.Equal(t, http.StatusOK, serve(bob, http.MethodPost, "/vote", nil).Code, "buckets are per user")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getLimiter("fresh")
	rl.getLimiter("stale")
	rl.limiters["stale"].lastSeen = time.Now().Add(-time.Hour)

	rl.Cleanup()

	assert.Contains(t, rl.limiters, "fresh")
	assert.NotContains(t, rl.limiters, "stale")
}

func TestRateLimiter_StartCleanupStops(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.getLimiter("stale")
	rl.mu.Lock()
	rl.limiters["stale"].lastSeen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	stop := make(chan struct{})
	rl.StartCleanup(10*time.Millisecond, stop)
	defer close(stop)

	assert.Eventually(t, func() bool {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		return len(rl.limiters) == 0
	}, time.Second, 10*time.Millisecond)
}
