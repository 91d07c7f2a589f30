package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

// GateStore keeps session gate stamps as unix-nanosecond strings with a
// per-key TTL, so Redis drops stale entries on its own.
type GateStore struct {
	db     redis.UniversalClient
	prefix string
}

var _ twofactor.GateStore = (*GateStore)(nil)

// NewGateStore creates a gate store. prefix is prepended to every gate key.
func NewGateStore(client redis.UniversalClient, prefix string) *GateStore {
	return &GateStore{db: client, prefix: prefix}
}

func (s *GateStore) Get(ctx context.Context, key string) (time.Time, bool, error) {
	val, err := s.db.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	nanos, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, errors.Join(ErrCorruptGateEntry, err)
	}
	return time.Unix(0, nanos), true, nil
}

func (s *GateStore) Set(ctx context.Context, key string, passedAt time.Time, ttl time.Duration) error {
	return s.db.Set(ctx, s.prefix+key, strconv.FormatInt(passedAt.UnixNano(), 10), ttl).Err()
}

func (s *GateStore) Delete(ctx context.Context, key string) error {
	return s.db.Del(ctx, s.prefix+key).Err()
}
