package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/twofactor/pkg/ratelimiter"
)

// consumeTokens refills then takes ARGV[5] tokens from the bucket in KEYS[1].
// ARGV: capacity, refill rate, interval ms, now ms, tokens.
// Returns {remaining, reset_at_ms}; a denied call leaves the bucket as is.
var consumeTokens = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local n = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'refill')
local tokens = tonumber(state[1])
local refill = tonumber(state[2])
if tokens == nil or refill == nil then
	tokens = capacity
	refill = now
end

local maxIntervals = math.floor(capacity / rate) + 1
local intervals = math.floor((now - refill) / interval)
if intervals >= maxIntervals then
	tokens = capacity
	refill = now
elseif intervals > 0 then
	tokens = math.min(tokens + intervals * rate, capacity)
	refill = refill + intervals * interval
end

local remaining = tokens - n
if remaining >= 0 then
	tokens = remaining
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'refill', refill)
redis.call('PEXPIRE', KEYS[1], interval * (maxIntervals + 1))
return {remaining, refill + interval}
`)

// RateLimitStore keeps token buckets in Redis so every instance shares them.
type RateLimitStore struct {
	db     redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ ratelimiter.Store = (*RateLimitStore)(nil)

func NewRateLimitStore(client redis.UniversalClient, prefix string) *RateLimitStore {
	return &RateLimitStore{db: client, prefix: prefix, now: time.Now}
}

func (s *RateLimitStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg ratelimiter.Config) (int, time.Time, error) {
	res, err := consumeTokens.Run(ctx, s.db, []string{s.key(key)},
		cfg.Capacity,
		cfg.RefillRate,
		cfg.RefillInterval.Milliseconds(),
		s.now().UnixMilli(),
		tokens,
	).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(res) != 2 {
		return 0, time.Time{}, ErrUnexpectedScriptReply
	}
	return int(res[0]), time.UnixMilli(res[1]), nil
}

func (s *RateLimitStore) Reset(ctx context.Context, key string) error {
	return s.db.Del(ctx, s.key(key)).Err()
}

func (s *RateLimitStore) key(k string) string {
	return s.prefix + "ratelimit:" + k
}
