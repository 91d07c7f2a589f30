package twofactor

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock. Tests use it to simulate expiry and drift.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRandom sets the entropy source for push codes and TOTP secrets.
// Must be cryptographically secure outside of tests.
func WithRandom(r io.Reader) Option {
	return func(s *Service) {
		s.random = r
	}
}

// WithHasher replaces the bcrypt hasher.
func WithHasher(h Hasher) Option {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithBcryptCost sets the bcrypt cost used to hash push codes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.hasher = NewBcryptHasher(cost)
	}
}

// WithTokenTTL sets how long an issued push code stays valid.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithTOTPSkew sets how many 30s steps either side of now are accepted.
func WithTOTPSkew(skew int) Option {
	return func(s *Service) {
		if skew >= 0 {
			s.skew = skew
		}
	}
}

// WithPolicy sets the policy answering IsRequired.
func WithPolicy(p Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithAuditor sets the collaborator receiving verification outcomes.
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithNotifier sets the push code transport used by SendToken.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithReplayGuard enables rejection of TOTP codes whose time step was already accepted.
func WithReplayGuard(g ReplayGuard) Option {
	return func(s *Service) {
		s.replay = g
	}
}

// WithIssuer sets the issuer shown in authenticator apps.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// WithConfig applies a Config loaded from the environment.
// Replay protection gets an in-memory guard sized by ReplayCacheSize unless
// a guard was already set.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		WithTokenTTL(cfg.TokenTTL)(s)
		WithTOTPSkew(cfg.TOTPSkew)(s)
		WithIssuer(cfg.Issuer)(s)
		if cfg.GateTTL > 0 {
			s.gateTTL = cfg.GateTTL
		}
		if cfg.BcryptCost > 0 {
			WithBcryptCost(cfg.BcryptCost)(s)
		}
		s.policy = NewStaticPolicy(cfg.Required, cfg.RequiredResources...)
		if cfg.ReplayProtection && s.replay == nil {
			s.replay = NewMemoryReplayGuard(cfg.ReplayCacheSize)
		}
	}
}
