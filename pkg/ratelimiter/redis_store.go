package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Refill and take run atomically on the server. Times are unix milliseconds.
// KEYS[1] bucket; ARGV capacity, refill rate, interval, now, requested, ttl.
var consumeScript = redis.NewScript(`
local capacity  = tonumber(ARGV[1])
local rate      = tonumber(ARGV[2])
local interval  = tonumber(ARGV[3])
local now       = tonumber(ARGV[4])
local requested = tonumber(ARGV[5])
local ttl       = tonumber(ARGV[6])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refilled')
local tokens = tonumber(state[1])
local refilled = tonumber(state[2])
if tokens == nil or refilled == nil then
	tokens = capacity
	refilled = now
end

local intervals = math.floor((now - refilled) / interval)
local cap = math.floor(capacity / rate) + 1
if intervals > cap then
	intervals = cap
end
if intervals > 0 then
	tokens = math.min(tokens + intervals * rate, capacity)
	refilled = now
end

local remaining = tokens - requested
if remaining >= 0 then
	tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'refilled', tostring(refilled))
redis.call('PEXPIRE', KEYS[1], ttl)

return {remaining, refilled + interval}
`)

// RedisStore keeps each bucket in a Redis hash.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

var _ Store = (*RedisStore)(nil)

type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces bucket keys. Defaults to "ratelimit:".
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func WithClock(now func() time.Time) RedisStoreOption {
	return func(s *RedisStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewRedisStore(client redis.Cmdable, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	interval := max(cfg.RefillInterval.Milliseconds(), 1)
	// idle buckets expire once they would be full again
	ttl := interval * int64(cfg.Capacity/cfg.RefillRate+1)

	res, err := consumeScript.Run(ctx, s.client, []string{s.prefix + key},
		cfg.Capacity, cfg.RefillRate, interval, s.now().UnixMilli(), tokens, ttl,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrStoreUnavailable
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
