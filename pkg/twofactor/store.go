package twofactor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenStore persists hashed push tokens.
type TokenStore interface {
	// InvalidateUnused sets used_at = now on every unused token of the principal, expired or not.
	InvalidateUnused(ctx context.Context, principalID string, now time.Time) error
	// Insert stores a new unused token and returns its id.
	Insert(ctx context.Context, principalID, tokenHash string, method Method, expiresAt, now time.Time) (uuid.UUID, error)
	// LatestUsable returns the newest token with used_at unset and expires_at > now,
	// or ErrTokenNotFound.
	LatestUsable(ctx context.Context, principalID string, now time.Time) (*OneTimeToken, error)
	// MarkUsed spends the token. It must be conditional on used_at being unset and
	// return ErrTokenAlreadyUsed when nothing was updated.
	MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) error
	// DeleteExpired removes tokens with expires_at < now, used or not.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// AtomicTokenStore is a TokenStore that can serialize work per principal.
// When the configured store implements it, token issuance runs invalidate and
// insert inside WithPrincipalLock so two concurrent issues cannot both leave an
// unused token behind.
type AtomicTokenStore interface {
	TokenStore
	WithPrincipalLock(ctx context.Context, principalID string, fn func(TokenStore) error) error
}

// SecretStore keeps one TOTP secret per principal.
type SecretStore interface {
	// Upsert creates or overwrites the principal's secret.
	Upsert(ctx context.Context, principalID, secret string, now time.Time) error
	// Get returns the secret or ErrSecretNotFound.
	Get(ctx context.Context, principalID string) (*TotpSecret, error)
	// Delete removes the secret. Deleting a missing secret is not an error.
	Delete(ctx context.Context, principalID string) error
}

// GateStore is a key-value store with per-key expiry backing SessionGate.
type GateStore interface {
	Get(ctx context.Context, key string) (time.Time, bool, error)
	Set(ctx context.Context, key string, passedAt time.Time, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Notifier delivers push codes (email, SMS).
type Notifier interface {
	Notify(ctx context.Context, d Delivery) error
}

// Auditor receives verification outcomes.
type Auditor interface {
	Record(ctx context.Context, principalID, event string, success bool)
}

// ReplayGuard rejects a TOTP time step that was already accepted for a principal.
type ReplayGuard interface {
	// Accept records counter as used and reports false if it, or a later step,
	// was accepted before.
	Accept(ctx context.Context, principalID string, counter int64) (bool, error)
	// Reset forgets the principal, used when the secret is rotated or removed.
	Reset(ctx context.Context, principalID string) error
}

// Hasher is a slow, salted password-hashing primitive.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)
