package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow prunes expired entries, checks the count, and records the
// request in a single Redis-side operation, so two concurrent requests can
// never both read the same count and both slip under the limit.
// Reply: {allowed, count, windowAnchorMs} where the anchor is the oldest
// surviving entry when denied, or now when allowed.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, 0, now - window)
local count = redis.call("ZCARD", key)
if count >= limit then
	local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
	local anchor = now
	if oldest[2] then
		anchor = tonumber(oldest[2])
	end
	return {0, count, anchor}
end
redis.call("ZADD", key, now, member)
redis.call("PEXPIRE", key, window)
return {1, count + 1, now}
`)

// RedisLimiter implements a sliding-window limiter on a Redis sorted set per key.
type RedisLimiter struct {
	client redis.Scripter
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter constructs a sliding-window limiter allowing limit requests per window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow atomically records the request and reports whether it fits the window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now().UTC()
	redisKey := "ratelimit:" + key
	member := strconv.FormatInt(now.UnixNano(), 10)

	reply, err := slidingWindow.Run(ctx, l.client, []string{redisKey},
		now.UnixMilli(), l.window.Milliseconds(), l.limit, member).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit %s: %w", key, err)
	}
	if len(reply) != 3 {
		return Result{}, fmt.Errorf("ratelimit %s: unexpected script reply of length %d", key, len(reply))
	}

	allowed := reply[0] == 1
	count := int(reply[1])
	resetAt := time.UnixMilli(reply[2]).Add(l.window)

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: allowed, Remaining: remaining, ResetAt: resetAt}, nil
}

var _ Limiter = (*RedisLimiter)(nil)
