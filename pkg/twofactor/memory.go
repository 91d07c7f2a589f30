package twofactor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTokenStore is an in-process TokenStore for tests and single-instance setups.
type MemoryTokenStore struct {
	mu     sync.Mutex
	lock   sync.Mutex // serializes WithPrincipalLock callers
	tokens []*OneTimeToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) WithPrincipalLock(_ context.Context, _ string, fn func(TokenStore) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(s)
}

func (s *MemoryTokenStore) InvalidateUnused(_ context.Context, principalID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens {
		if t.PrincipalID == principalID && t.UsedAt == nil {
			used := now
			t.UsedAt = &used
		}
	}
	return nil
}

func (s *MemoryTokenStore) Insert(_ context.Context, principalID, tokenHash string, method Method, expiresAt, now time.Time) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	s.tokens = append(s.tokens, &OneTimeToken{
		ID:          id,
		PrincipalID: principalID,
		TokenHash:   tokenHash,
		Method:      method,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	})
	return id, nil
}

// LatestUsable picks the usable token with the greatest CreatedAt; on a tie the
// one inserted last wins.
func (s *MemoryTokenStore) LatestUsable(_ context.Context, principalID string, now time.Time) (*OneTimeToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *OneTimeToken
	for _, t := range s.tokens {
		if t.PrincipalID != principalID || !t.Usable(now) {
			continue
		}
		if latest == nil || !t.CreatedAt.Before(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, ErrTokenNotFound
	}
	found := *latest
	return &found, nil
}

func (s *MemoryTokenStore) MarkUsed(_ context.Context, id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens {
		if t.ID != id {
			continue
		}
		if t.UsedAt != nil {
			return ErrTokenAlreadyUsed
		}
		used := now
		t.UsedAt = &used
		return nil
	}
	return ErrTokenNotFound
}

func (s *MemoryTokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tokens[:0]
	var deleted int64
	for _, t := range s.tokens {
		if t.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	clear(s.tokens[len(kept):])
	s.tokens = kept
	return deleted, nil
}

// Tokens returns a snapshot of every stored token of the principal.
func (s *MemoryTokenStore) Tokens(principalID string) []OneTimeToken {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []OneTimeToken
	for _, t := range s.tokens {
		if t.PrincipalID == principalID {
			out = append(out, *t)
		}
	}
	return out
}

// MemorySecretStore is an in-process SecretStore.
type MemorySecretStore struct {
	mu      sync.RWMutex
	secrets map[string]TotpSecret
}

func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{secrets: make(map[string]TotpSecret)}
}

func (s *MemorySecretStore) Upsert(_ context.Context, principalID, secret string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[principalID] = TotpSecret{PrincipalID: principalID, Secret: secret, UpdatedAt: now}
	return nil
}

func (s *MemorySecretStore) Get(_ context.Context, principalID string) (*TotpSecret, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	secret, ok := s.secrets[principalID]
	if !ok {
		return nil, ErrSecretNotFound
	}
	return &secret, nil
}

func (s *MemorySecretStore) Delete(_ context.Context, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, principalID)
	return nil
}

type gateEntry struct {
	passedAt  time.Time
	expiresAt time.Time
}

// MemoryGateStore is an in-process GateStore. Expiry is judged with its own
// clock, so give it the same clock as the gate.
type MemoryGateStore struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]gateEntry
}

// NewMemoryGateStore creates a store. A nil clock uses the wall clock.
func NewMemoryGateStore(clock Clock) *MemoryGateStore {
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryGateStore{clock: clock, entries: make(map[string]gateEntry)}
}

func (s *MemoryGateStore) Get(_ context.Context, key string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return time.Time{}, false, nil
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		return time.Time{}, false, nil
	}
	return e.passedAt, true, nil
}

func (s *MemoryGateStore) Set(_ context.Context, key string, passedAt time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = gateEntry{passedAt: passedAt, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

func (s *MemoryGateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
