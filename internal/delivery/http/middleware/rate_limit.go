package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes one fixed-window limit keyed by client.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc picks the client key; nil means client IP.
	KeyFunc func(*gin.Context) string
	// KeyPrefix namespaces the Redis counters, e.g. "portfolio:rl:ip:".
	KeyPrefix string
	// FailClosed rejects requests with 503 when Redis errors instead of counting locally.
	FailClosed bool
	// Logger receives rate limit events; nil uses the default security logger.
	Logger *security.SecurityLogger
}

// windowCount is the state of one key after a hit.
type windowCount struct {
	count   int
	resetAt time.Time
}

// KEYS[1] = counter key, ARGV[1] = window in seconds. Returns {count, ttl}.
const fixedWindowScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`

var errBadScriptReply = errors.New("unexpected rate limit script reply")

func hitRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (windowCount, error) {
	reply, err := client.Eval(ctx, fixedWindowScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return windowCount{}, fmt.Errorf("rate limit eval: %w", err)
	}
	vals, ok := reply.([]interface{})
	if !ok || len(vals) != 2 {
		return windowCount{}, errBadScriptReply
	}
	count, _ := vals[0].(int64)
	ttl, _ := vals[1].(int64)
	if ttl < 0 {
		ttl = int64(window.Seconds())
	}
	return windowCount{count: int(count), resetAt: time.Now().Add(time.Duration(ttl) * time.Second)}, nil
}

// memoryWindows counts hits per key in process memory. Expired keys are
// swept on access at most once per window.
type memoryWindows struct {
	window time.Duration

	mu        sync.Mutex
	counts    map[string]*windowCount
	nextSweep time.Time
}

func newMemoryWindows(window time.Duration) *memoryWindows {
	return &memoryWindows{window: window, counts: make(map[string]*windowCount)}
}

func (m *memoryWindows) hit(key string, now time.Time) windowCount {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.After(m.nextSweep) {
		for k, wc := range m.counts {
			if now.After(wc.resetAt) {
				delete(m.counts, k)
			}
		}
		m.nextSweep = now.Add(m.window)
	}

	wc, ok := m.counts[key]
	if !ok || now.After(wc.resetAt) {
		wc = &windowCount{resetAt: now.Add(m.window)}
		m.counts[key] = wc
	}
	wc.count++
	return *wc
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

func window(cfg *config.Config) time.Duration {
	if cfg.RateLimitWindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(cfg.RateLimitWindowSeconds) * time.Second
}

// GlobalRateLimitConfig applies to every /v1 route and fails open.
func GlobalRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		Limit:     cfg.RateLimitGlobalThreshold,
		Window:    window(cfg),
		KeyPrefix: "portfolio:rl:ip:",
	}
}

// LoginRateLimitConfig guards the login endpoint and fails closed.
func LoginRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		Limit:      cfg.RateLimitLoginThreshold,
		Window:     window(cfg),
		KeyPrefix:  "portfolio:rl:login:",
		FailClosed: true,
	}
}

func ContactRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		Limit:     cfg.RateLimitContactThreshold,
		Window:    window(cfg),
		KeyPrefix: "portfolio:rl:contact:",
	}
}

// RateLimitMiddleware counts requests in Redis when a client is connected and
// in process memory otherwise.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIPKey
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = security.DefaultLogger()
	}
	local := newMemoryWindows(cfg.Window)

	return func(c *gin.Context) {
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		var state windowCount
		if client := redis.Client(); client != nil {
			var err error
			state, err = hitRedis(c.Request.Context(), client, key, cfg.Window)
			if err != nil {
				cfg.Logger.Log(c.Request.Context(), security.SecurityEvent{
					Event:       security.EventRateLimitTriggered,
					SubjectType: "system",
					IP:          c.ClientIP(),
					Details:     map[string]interface{}{"error": err.Error(), "fail_closed": cfg.FailClosed},
				})
				if cfg.FailClosed {
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				state = local.hit(key, time.Now())
			}
		} else {
			state = local.hit(key, time.Now())
		}

		remaining := cfg.Limit - state.count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", state.resetAt.UTC().Format(time.RFC3339))

		if state.count <= cfg.Limit {
			c.Next()
			return
		}

		retryAfter := int(time.Until(state.resetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))

		cfg.Logger.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), requestID(c), c.FullPath())
		metrics.RecordRateLimitHit(cfg.KeyPrefix)

		response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
		c.Abort()
	}
}
