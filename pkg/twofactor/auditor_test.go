package twofactor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/pkg/audit"
)

type failingStorage struct{}

func (failingStorage) Store(context.Context, audit.Event) error { return errors.New("unavailable") }

func TestAuditTrail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores outcomes as audit events", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		trail := NewAuditTrail(audit.NewLogger(storage), nil)

		trail.Record(ctx, "user-1", EventTotpVerify, true)
		trail.Record(ctx, "user-1", EventTokenVerify, false)

		events := storage.Events()
		require.Len(t, events, 2)

		assert.Equal(t, EventTotpVerify, events[0].Action)
		assert.Equal(t, "user-1", events[0].PrincipalID)
		assert.Equal(t, audit.ResultSuccess, events[0].Result)
		assert.Equal(t, "twofactor", events[0].Resource)

		assert.Equal(t, EventTokenVerify, events[1].Action)
		assert.Equal(t, audit.ResultFailure, events[1].Result)
	})

	t.Run("storage failures do not panic", func(t *testing.T) {
		t.Parallel()

		trail := NewAuditTrail(audit.NewLogger(failingStorage{}), nil)
		assert.NotPanics(t, func() {
			trail.Record(ctx, "user-1", EventTokenVerify, true)
		})
	})

	t.Run("plugs into the service", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		env := newTestEnv(t, WithAuditor(NewAuditTrail(audit.NewLogger(storage), nil)))
		require.NoError(t, env.secrets.Upsert(ctx, "user-1", testSecret, testEpoch))

		ok, err := env.svc.VerifyTotp(ctx, "user-1", "324550")
		require.NoError(t, err)
		require.True(t, ok)

		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, EventTotpVerify, events[0].Action)
		assert.Equal(t, audit.ResultSuccess, events[0].Result)
	})
}
