package security

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts per IP before a block
	AttemptWindow time.Duration // window the failures are counted in
	BlockDuration time.Duration
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginTracker counts failed admin logins per client IP and blocks the IP
// once MaxAttempts is reached. Counters live in Redis when a client is
// given, otherwise in process memory. Only the IP is tracked: blocking the
// single admin username would let anyone lock the owner out.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
	logger *SecurityLogger
	now    func() time.Time

	mu    sync.Mutex
	local map[string]*localAttempts
}

type localAttempts struct {
	count        int
	windowEnds   time.Time
	blockedUntil time.Time
}

// Redis key patterns
const (
	failLoginIPPrefix    = "portfolio:fail:login:ip:"
	blockedLoginIPPrefix = "portfolio:blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns the count after increment.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// NewLoginTracker creates a tracker; client may be nil.
func NewLoginTracker(config LoginTrackerConfig, client *goredis.Client, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultLoginTrackerConfig().MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = DefaultLoginTrackerConfig().AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = DefaultLoginTrackerConfig().BlockDuration
	}
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{
		config: config,
		client: client,
		logger: logger,
		now:    time.Now,
		local:  make(map[string]*localAttempts),
	}
}

// IsBlocked reports whether ip is currently blocked. Redis errors fail open.
func (lt *LoginTracker) IsBlocked(ctx context.Context, ip string) bool {
	if ip == "" {
		return false
	}
	if lt.client != nil {
		exists, err := lt.client.Exists(ctx, blockedLoginIPPrefix+ip).Result()
		if err == nil {
			return exists > 0
		}
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	entry, ok := lt.local[ip]
	return ok && lt.now().Before(entry.blockedUntil)
}

// RecordFailure counts a failed attempt and returns whether ip is now blocked.
func (lt *LoginTracker) RecordFailure(ctx context.Context, ip string) (bool, int, error) {
	if ip == "" {
		return false, 0, nil
	}
	if lt.client != nil {
		blocked, count, err := lt.recordRedis(ctx, ip)
		if err == nil {
			return blocked, count, nil
		}
		// fall through to the local counter
	}
	blocked, count := lt.recordLocal(ip)
	return blocked, count, nil
}

func (lt *LoginTracker) recordRedis(ctx context.Context, ip string) (bool, int, error) {
	ttl := int(lt.config.AttemptWindow.Seconds())
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{failLoginIPPrefix + ip}, ttl).Result()
	if err != nil {
		return false, 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return false, 0, errors.New("unexpected result type from Lua script")
	}
	if int(count) < lt.config.MaxAttempts {
		return false, int(count), nil
	}
	if err := lt.client.Set(ctx, blockedLoginIPPrefix+ip, "1", lt.config.BlockDuration).Err(); err != nil {
		return true, int(count), fmt.Errorf("failed to set IP block: %w", err)
	}
	lt.logger.LogBlockCreated(ctx, "ip", ip, ip, lt.config.BlockDuration)
	return true, int(count), nil
}

func (lt *LoginTracker) recordLocal(ip string) (bool, int) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	entry, ok := lt.local[ip]
	if !ok || now.After(entry.windowEnds) {
		entry = &localAttempts{windowEnds: now.Add(lt.config.AttemptWindow)}
		lt.local[ip] = entry
	}
	entry.count++
	if entry.count >= lt.config.MaxAttempts {
		entry.blockedUntil = now.Add(lt.config.BlockDuration)
		lt.logger.LogBlockCreated(context.Background(), "ip", ip, ip, lt.config.BlockDuration)
		return true, entry.count
	}
	return false, entry.count
}

// Clear forgets failures for ip after a successful login.
func (lt *LoginTracker) Clear(ctx context.Context, ip string) {
	if lt.client != nil {
		_ = lt.client.Del(ctx, failLoginIPPrefix+ip).Err()
	}
	lt.mu.Lock()
	delete(lt.local, ip)
	lt.mu.Unlock()
}
