package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/pkg/audit"
)

type ctxKey string

func TestNewLogger_NilStorage(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { audit.NewLogger(nil) })
}

func TestLogger_Log(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	log := audit.NewLogger(storage,
		audit.WithTimeSource(func() time.Time { return fixed }),
		audit.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			v, ok := ctx.Value(ctxKey("request_id")).(string)
			return v, ok
		}),
		audit.WithIPExtractor(func(context.Context) (string, bool) { return "", false }),
	)

	ctx := context.WithValue(context.Background(), ctxKey("request_id"), "req-1")
	err := log.Log(ctx, "twofactor.totp.verify",
		audit.WithPrincipal("user-1"),
		audit.WithResource("resource", "doc-7"),
		audit.WithMetadata("drift", 1),
	)
	require.NoError(t, err)

	events := storage.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "twofactor.totp.verify", e.Action)
	assert.Equal(t, audit.ResultSuccess, e.Result)
	assert.Equal(t, "user-1", e.PrincipalID)
	assert.Equal(t, "resource", e.Resource)
	assert.Equal(t, "doc-7", e.ResourceID)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Empty(t, e.IP)
	assert.Equal(t, 1, e.Metadata["drift"])
	assert.Equal(t, fixed, e.CreatedAt)
}

func TestLogger_LogResultOverride(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	log := audit.NewLogger(storage)

	require.NoError(t, log.Log(context.Background(), "twofactor.token.verify", audit.WithResult(audit.ResultFailure)))
	assert.Equal(t, audit.ResultFailure, storage.Events()[0].Result)
}

func TestLogger_LogError(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	log := audit.NewLogger(storage, audit.WithPrincipalIDExtractor(func(context.Context) (string, bool) {
		return "from-ctx", true
	}))

	require.NoError(t, log.LogError(context.Background(), "twofactor.token.issue", errors.New("db down")))

	e := storage.Events()[0]
	assert.Equal(t, audit.ResultError, e.Result)
	assert.Equal(t, "db down", e.Error)
	assert.Equal(t, "from-ctx", e.PrincipalID)
}

func TestLogger_Validation(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	log := audit.NewLogger(storage)

	err := log.Log(context.Background(), "")
	assert.ErrorIs(t, err, audit.ErrEventValidation)

	err = log.Log(context.Background(), "x", audit.WithResult("maybe"))
	assert.ErrorIs(t, err, audit.ErrEventValidation)

	assert.Empty(t, storage.Events())
}

func TestMemoryStorage_CopiesMetadata(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	meta := map[string]any{"k": "v"}
	require.NoError(t, storage.Store(context.Background(), audit.Event{Action: "a", Metadata: meta}))

	meta["k"] = "changed"
	assert.Equal(t, "v", storage.Events()[0].Metadata["k"])
}
