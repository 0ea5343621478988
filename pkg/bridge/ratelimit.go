package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter throttles per-session dispatch. A nil limiter on the bridge
// means no throttling.
type Limiter interface {
	Allow(ctx context.Context, sessionID string) (bool, error)
}

// LocalLimiter is a per-session token bucket held in process memory.
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

// NewLocalLimiter allows rps requests per second with the given burst per
// session.
func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	return &LocalLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (l *LocalLimiter) Allow(ctx context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	bucket, ok := l.buckets[sessionID]
	if !ok {
		bucket = rate.NewLimiter(l.rps, l.burst)
		l.buckets[sessionID] = bucket
	}
	l.mu.Unlock()
	return bucket.Allow(), nil
}

// redisTokenBucketScript runs the token bucket atomically in Redis so
// multiple bridge instances share one budget per session.
// KEYS[1] = bucket key, ARGV = refill rate, capacity, cost, now.
var redisTokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local cost = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local state = redis.call("HMGET", key, "tokens", "last_refill")
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if not tokens or not last_refill then
    tokens = capacity
    last_refill = now
end

local elapsed = now - last_refill
if elapsed > 0 then
    tokens = tokens + elapsed * rate
    if tokens > capacity then
        tokens = capacity
    end
    last_refill = now
end

local allowed = 0
if tokens >= cost then
    tokens = tokens - cost
    allowed = 1
end

redis.call("HMSET", key, "tokens", tokens, "last_refill", last_refill)
redis.call("EXPIRE", key, 60)

return allowed
`)

// RedisLimiter shares session buckets across bridge instances.
type RedisLimiter struct {
	client *redis.Client
	rps    float64
	burst  int
}

// NewRedisLimiter connects to addr and allows rps requests per second
// with the given burst per session.
func NewRedisLimiter(addr, password string, db int, rps float64, burst int) *RedisLimiter {
	return &RedisLimiter{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		rps:    rps,
		burst:  burst,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, sessionID string) (bool, error) {
	key := "bridge:limiter:" + sessionID
	now := float64(time.Now().UnixMicro()) / 1e6

	res, err := redisTokenBucketScript.Run(ctx, l.client, []string{key}, l.rps, l.burst, 1, now).Result()
	if err != nil {
		return false, fmt.Errorf("redis limiter: %w", err)
	}
	allowed, ok := res.(int64)
	if !ok {
		return false, fmt.Errorf("redis limiter: unexpected script result %T", res)
	}
	return allowed == 1, nil
}
