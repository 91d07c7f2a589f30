package twofactor

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultGateTTL = 24 * time.Hour
	gateKeyPrefix  = "twofactor:gate:"
)

// SessionGate remembers, per (subject, resource) pair, when the subject last
// cleared the second factor. An entry counts only while now - passedAt < ttl.
type SessionGate struct {
	store GateStore
	clock Clock
	ttl   time.Duration
}

// GateOption configures a SessionGate.
type GateOption func(*SessionGate)

// WithGateClock sets the clock used to stamp and check entries.
func WithGateClock(c Clock) GateOption {
	return func(g *SessionGate) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithGateTTL sets how long a passed check stays valid.
func WithGateTTL(ttl time.Duration) GateOption {
	return func(g *SessionGate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// NewSessionGate creates a gate over store.
func NewSessionGate(store GateStore, opts ...GateOption) *SessionGate {
	g := &SessionGate{
		store: store,
		clock: SystemClock,
		ttl:   DefaultGateTTL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MarkPassed stamps the pair with the current time.
func (g *SessionGate) MarkPassed(ctx context.Context, subject, resourceID string) error {
	return g.store.Set(ctx, GateKey(subject, resourceID), g.clock.Now(), g.ttl)
}

// HasPassed reports whether the pair was stamped less than ttl ago.
// The store may expire keys on its own; the age is checked here regardless.
func (g *SessionGate) HasPassed(ctx context.Context, subject, resourceID string) (bool, error) {
	passedAt, ok, err := g.store.Get(ctx, GateKey(subject, resourceID))
	if err != nil || !ok {
		return false, err
	}
	return g.clock.Now().Sub(passedAt) < g.ttl, nil
}

// Revoke forgets the pair, e.g. on logout.
func (g *SessionGate) Revoke(ctx context.Context, subject, resourceID string) error {
	return g.store.Delete(ctx, GateKey(subject, resourceID))
}

// TTL returns the gate lifetime.
func (g *SessionGate) TTL() time.Duration { return g.ttl }

// GateKey builds the store key for a (subject, resource) pair.
func GateKey(subject, resourceID string) string {
	var sb strings.Builder
	sb.Grow(len(gateKeyPrefix) + len(subject) + len(resourceID) + 1)
	sb.WriteString(gateKeyPrefix)
	sb.WriteString(subject)
	sb.WriteByte(':')
	sb.WriteString(resourceID)
	return sb.String()
}
