package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddlewareInMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(RateLimitConfig{Limit: 2, Window: time.Minute, KeyPrefix: "test:rl:"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, hit("192.0.2.10").Code)
	rec := hit("192.0.2.10")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = hit("192.0.2.10")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// other clients keep their own window
	assert.Equal(t, http.StatusOK, hit("192.0.2.11").Code)
}

func TestMemoryWindowsReset(t *testing.T) {
	m := newMemoryWindows(time.Minute)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, m.hit("k", start).count)
	assert.Equal(t, 2, m.hit("k", start.Add(30*time.Second)).count)

	next := m.hit("k", start.Add(61*time.Second))
	assert.Equal(t, 1, next.count)
	assert.Equal(t, start.Add(121*time.Second), next.resetAt)

	m.hit("other", start.Add(3*time.Minute))
	assert.Len(t, m.counts, 1)
}
