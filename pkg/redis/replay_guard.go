package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/twofactor/pkg/totp"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

// acceptCounter stores ARGV[1] unless the key already holds a counter >= it.
// Returns 1 when stored.
var acceptCounter = redis.NewScript(`
local last = redis.call('GET', KEYS[1])
if last and tonumber(last) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

// ReplayGuard remembers the last accepted TOTP step per principal in Redis,
// shared by every service instance.
type ReplayGuard struct {
	db     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ twofactor.ReplayGuard = (*ReplayGuard)(nil)

// NewReplayGuard creates a guard for codes verified with the given skew.
// Entries live (2*skew+1) periods, past which no replay of them can verify.
func NewReplayGuard(client redis.UniversalClient, prefix string, skew int) *ReplayGuard {
	steps := 2*max(skew, 0) + 1
	return &ReplayGuard{
		db:     client,
		prefix: prefix,
		ttl:    time.Duration(steps*totp.DefaultPeriod) * time.Second,
	}
}

func (g *ReplayGuard) Accept(ctx context.Context, principalID string, counter int64) (bool, error) {
	stored, err := acceptCounter.Run(ctx, g.db, []string{g.key(principalID)}, counter, g.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (g *ReplayGuard) Reset(ctx context.Context, principalID string) error {
	return g.db.Del(ctx, g.key(principalID)).Err()
}

func (g *ReplayGuard) key(principalID string) string {
	return g.prefix + "totp:last:" + principalID
}
