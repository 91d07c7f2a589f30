package twofactor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	subject := func(r *http.Request) string { return r.Header.Get("X-Session") }

	newHandler := func(t *testing.T, svc *Service, onChallenge http.Handler) http.Handler {
		t.Helper()
		return Middleware(MiddlewareConfig{
			Service:     svc,
			Subject:     subject,
			OnChallenge: onChallenge,
		})(ok)
	}

	do := func(h http.Handler, path, session string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if session != "" {
			req.Header.Set("X-Session", session)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("unprotected resource passes", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, WithPolicy(NewStaticPolicy(false, "/billing")))

		rec := do(newHandler(t, env.svc, nil), "/profile", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("protected resource challenges until passed", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, WithPolicy(NewStaticPolicy(false, "/billing")))
		h := newHandler(t, env.svc, nil)

		assert.Equal(t, http.StatusForbidden, do(h, "/billing", "").Code)
		assert.Equal(t, http.StatusForbidden, do(h, "/billing", "session-1").Code)

		require.NoError(t, env.svc.MarkPassed(context.Background(), "session-1", "/billing"))
		assert.Equal(t, http.StatusNoContent, do(h, "/billing", "session-1").Code)
		assert.Equal(t, http.StatusForbidden, do(h, "/billing", "session-2").Code)

		env.clock.Advance(DefaultGateTTL)
		assert.Equal(t, http.StatusForbidden, do(h, "/billing", "session-1").Code)
	})

	t.Run("custom challenge handler", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, WithPolicy(NewStaticPolicy(true)))

		redirect := http.RedirectHandler("/2fa", http.StatusSeeOther)
		rec := do(newHandler(t, env.svc, redirect), "/anything", "session-1")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/2fa", rec.Header().Get("Location"))
	})

	t.Run("gate store failure", func(t *testing.T) {
		t.Parallel()

		store := &MockGateStore{}
		store.On("Get", mock.Anything, mock.Anything).Return(time.Time{}, false, errors.New("timeout"))
		svc := NewService(NewMemoryTokenStore(), NewMemorySecretStore(), NewSessionGate(store),
			WithPolicy(NewStaticPolicy(true)),
		)

		rec := do(newHandler(t, svc, nil), "/billing", "session-1")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("panics without required fields", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { Middleware(MiddlewareConfig{}) })
	})
}
