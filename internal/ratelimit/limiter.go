// Package ratelimit implements the authoritative per-identity sliding-window
// counter backed by Redis. The read-check-write step runs inside a single Lua
// script, so concurrent submissions from one identity can never both take the
// last slot.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrRateLimited is returned on deny. Deny is terminal for the request.
var ErrRateLimited = errors.New("ratelimit: limit exceeded")

// Limiter admits or denies one unit of work for an opaque identity key.
type Limiter interface {
	Allow(ctx context.Context, key string) error
}

// The window resets relative to the first admitted request, not a clock
// boundary. Records expire via PEXPIRE; the counter is never decremented.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])

local fields = redis.call('HMGET', key, 'count', 'windowStart')
local count = tonumber(fields[1])
local start = tonumber(fields[2])

if count and start and (now - start) < window then
  if count >= max then
    return 0
  end
  count = count + 1
else
  count = 1
  start = now
end

redis.call('HMSET', key, 'count', count, 'windowStart', start, 'updatedAt', now)
redis.call('PEXPIRE', key, window)
return count
`)

// RedisLimiter is the Redis-backed Limiter.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	tracer trace.Tracer

	// now is swappable in tests.
	now func() time.Time
}

// NewRedisLimiter creates a limiter admitting limit requests per window per key.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if client == nil {
		panic("ratelimit: redis client cannot be nil")
	}
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Hour
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		tracer: otel.Tracer("leads.internal.ratelimit"),
		now:    time.Now,
	}
}

// Allow atomically admits one more request for key or returns ErrRateLimited.
// Any other error means the store itself failed.
func (l *RedisLimiter) Allow(ctx context.Context, key string) error {
	ctx, span := l.tracer.Start(ctx, "ratelimit.allow")
	defer span.End()

	admitted, err := slidingWindow.Run(ctx, l.client,
		[]string{recordKey(key)},
		l.now().UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
	).Int64()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("ratelimit: script failed: %w", err)
	}
	if admitted == 0 {
		return ErrRateLimited
	}
	return nil
}

func recordKey(identity string) string {
	return "rate_limits:" + identity
}
