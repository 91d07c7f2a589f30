package twofactor

import (
	"context"

	"github.com/dmitrymomot/twofactor/pkg/cache"
)

const defaultReplayCacheSize = 10000

// MemoryReplayGuard keeps the last accepted TOTP time step per principal in a
// bounded LRU. Evicted principals lose their replay protection, so size it
// above the number of principals verifying within one skew window.
type MemoryReplayGuard struct {
	last *cache.LRUCache[string, int64]
}

// NewMemoryReplayGuard creates a guard remembering up to size principals.
func NewMemoryReplayGuard(size int) *MemoryReplayGuard {
	if size <= 0 {
		size = defaultReplayCacheSize
	}
	return &MemoryReplayGuard{last: cache.NewLRUCache[string, int64](size)}
}

func (g *MemoryReplayGuard) Accept(_ context.Context, principalID string, counter int64) (bool, error) {
	_, stored := g.last.Update(principalID, func(current int64, found bool) (int64, bool) {
		if found && counter <= current {
			return current, false
		}
		return counter, true
	})
	return stored, nil
}

func (g *MemoryReplayGuard) Reset(_ context.Context, principalID string) error {
	g.last.Remove(principalID)
	return nil
}
