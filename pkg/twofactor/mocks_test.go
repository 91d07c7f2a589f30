package twofactor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenStore is a mock implementation of TokenStore.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) InvalidateUnused(ctx context.Context, principalID string, now time.Time) error {
	args := m.Called(ctx, principalID, now)
	return args.Error(0)
}

func (m *MockTokenStore) Insert(ctx context.Context, principalID, tokenHash string, method Method, expiresAt, now time.Time) (uuid.UUID, error) {
	args := m.Called(ctx, principalID, tokenHash, method, expiresAt, now)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenStore) LatestUsable(ctx context.Context, principalID string, now time.Time) (*OneTimeToken, error) {
	args := m.Called(ctx, principalID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OneTimeToken), args.Error(1)
}

func (m *MockTokenStore) MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *MockTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSecretStore is a mock implementation of SecretStore.
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) Upsert(ctx context.Context, principalID, secret string, now time.Time) error {
	args := m.Called(ctx, principalID, secret, now)
	return args.Error(0)
}

func (m *MockSecretStore) Get(ctx context.Context, principalID string) (*TotpSecret, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TotpSecret), args.Error(1)
}

func (m *MockSecretStore) Delete(ctx context.Context, principalID string) error {
	args := m.Called(ctx, principalID)
	return args.Error(0)
}

// MockGateStore is a mock implementation of GateStore.
type MockGateStore struct {
	mock.Mock
}

func (m *MockGateStore) Get(ctx context.Context, key string) (time.Time, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func (m *MockGateStore) Set(ctx context.Context, key string, passedAt time.Time, ttl time.Duration) error {
	args := m.Called(ctx, key, passedAt, ttl)
	return args.Error(0)
}

func (m *MockGateStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, d Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

// MockAuditor is a mock implementation of Auditor.
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, principalID, event string, success bool) {
	m.Called(ctx, principalID, event, success)
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
