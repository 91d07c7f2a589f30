package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/twofactor/pkg/clientip"
	"github.com/dmitrymomot/twofactor/pkg/httpserver"
	"github.com/dmitrymomot/twofactor/pkg/logger"
	"github.com/dmitrymomot/twofactor/pkg/ratelimiter"
	"github.com/dmitrymomot/twofactor/pkg/requestid"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

// Service is the subset of *twofactor.Service the API drives.
type Service interface {
	SendToken(ctx context.Context, principalID string, method twofactor.Method, destination string) (time.Time, error)
	VerifyToken(ctx context.Context, principalID, code string) (bool, error)
	Enroll(ctx context.Context, principalID, accountName string) (*twofactor.Enrollment, error)
	VerifyTotp(ctx context.Context, principalID, code string) (bool, error)
	DisableTotp(ctx context.Context, principalID string) error
	IsRequired(resourceID string) bool
	MarkPassed(ctx context.Context, subject, resourceID string) error
	HasPassed(ctx context.Context, subject, resourceID string) (bool, error)
}

type Config struct {
	Service Service
	// APIToken authenticates callers on /v1 via "Authorization: Bearer <token>".
	APIToken string
	Logger   *slog.Logger
	// Checks back the readiness probe.
	Checks         []httpserver.Check
	RequestTimeout time.Duration
	// VerifyLimiter, when set, bounds verification attempts per principal.
	// A successful verification resets the principal's bucket.
	VerifyLimiter ratelimiter.RateLimiter
}

type api struct {
	svc     Service
	token   []byte
	logger  *slog.Logger
	limiter ratelimiter.RateLimiter
}

// NewRouter builds the HTTP API. It is meant for trusted backends: the
// application authenticates the user, then asks this service to issue and
// verify second-factor codes on the user's behalf.
func NewRouter(cfg Config) (http.Handler, error) {
	if cfg.Service == nil {
		return nil, ErrMissingService
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, ErrMissingAPIToken
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	a := &api{svc: cfg.Service, token: []byte(cfg.APIToken), logger: cfg.Logger, limiter: cfg.VerifyLimiter}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(cfg.Logger, 2*time.Second, cfg.Checks...))

	r.Route("/v1", func(r chi.Router) {
		r.Use(a.authenticate)

		r.Route("/principals/{principalID}", func(r chi.Router) {
			r.Post("/tokens", a.sendToken)
			r.Post("/totp", a.enroll)
			r.Delete("/totp", a.disableTotp)

			r.Group(func(r chi.Router) {
				if a.limiter != nil {
					r.Use(ratelimiter.Middleware(ratelimiter.MiddlewareConfig{
						Limiter:   a.limiter,
						Key:       verifyKey,
						OnLimited: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { a.fail(w, r, errRateLimited) }),
						OnError: func(w http.ResponseWriter, r *http.Request, err error) {
							a.fail(w, r, errors.Join(errLimiterUnavailable, err))
						},
					}))
				}
				r.Post("/tokens/verify", a.verifyToken)
				r.Post("/totp/verify", a.verifyTotp)
			})
		})
		r.Get("/gate", a.gateStatus)
	})

	return r, nil
}

func verifyKey(r *http.Request) string {
	return "verify:" + chi.URLParam(r, "principalID")
}

func (a *api) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), a.token) != 1 {
			a.fail(w, r, errUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
