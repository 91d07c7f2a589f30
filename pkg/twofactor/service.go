package twofactor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/twofactor/pkg/logger"
	"github.com/dmitrymomot/twofactor/pkg/qrcode"
	"github.com/dmitrymomot/twofactor/pkg/totp"
)

const (
	DefaultTokenTTL = 10 * time.Minute
	DefaultIssuer   = "TwoFactor"

	enrollmentQRSize = 256
)

// Service issues and verifies push codes and TOTP codes and tracks which
// subjects already cleared the second factor for a resource.
type Service struct {
	tokens  TokenStore
	secrets SecretStore
	gate    *SessionGate

	clock    Clock
	random   io.Reader
	hasher   Hasher
	policy   Policy
	auditor  Auditor
	notifier Notifier
	replay   ReplayGuard
	logger   *slog.Logger

	tokenTTL time.Duration
	gateTTL  time.Duration
	skew     int
	issuer   string
}

// NewService creates a two-factor service. A nil gate gets an in-memory one
// sharing the service clock and the configured gate lifetime.
func NewService(tokens TokenStore, secrets SecretStore, gate *SessionGate, opts ...Option) *Service {
	s := &Service{
		tokens:   tokens,
		secrets:  secrets,
		gate:     gate,
		clock:    SystemClock,
		hasher:   NewBcryptHasher(DefaultBcryptCost),
		policy:   NewStaticPolicy(false),
		logger:   logger.Discard(),
		tokenTTL: DefaultTokenTTL,
		gateTTL:  DefaultGateTTL,
		skew:     totp.DefaultSkew,
		issuer:   DefaultIssuer,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.gate == nil {
		s.gate = NewSessionGate(NewMemoryGateStore(s.clock), WithGateClock(s.clock), WithGateTTL(s.gateTTL))
	}

	return s
}

// IssueToken generates a push code for email or SMS delivery, stores its hash and
// returns the plaintext. Earlier unused codes of the principal are invalidated.
// If it fails the caller must not deliver anything.
func (s *Service) IssueToken(ctx context.Context, principalID string, method Method) (string, error) {
	code, _, err := s.issueToken(ctx, principalID, method)
	return code, err
}

func (s *Service) issueToken(ctx context.Context, principalID string, method Method) (string, time.Time, error) {
	if strings.TrimSpace(principalID) == "" {
		return "", time.Time{}, ErrInvalidPrincipal
	}
	if !method.IsPush() {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	code, err := totp.RandomCode(s.random)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate code: %w", err)
	}

	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.tokenTTL)

	if err := s.replaceToken(ctx, principalID, hash, method, expiresAt, now); err != nil {
		s.logger.ErrorContext(ctx, "failed to store one-time token",
			logger.PrincipalID(principalID),
			logger.Method(method),
			logger.Error(err),
			logger.Component("twofactor"),
		)
		return "", time.Time{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	s.logger.DebugContext(ctx, "one-time token issued",
		logger.PrincipalID(principalID),
		logger.Method(method),
		logger.Component("twofactor"),
	)
	s.audit(ctx, principalID, EventTokenIssued, true)

	return code, expiresAt, nil
}

func (s *Service) replaceToken(ctx context.Context, principalID, hash string, method Method, expiresAt, now time.Time) error {
	write := func(store TokenStore) error {
		if err := store.InvalidateUnused(ctx, principalID, now); err != nil {
			return fmt.Errorf("failed to invalidate previous tokens: %w", err)
		}
		if _, err := store.Insert(ctx, principalID, hash, method, expiresAt, now); err != nil {
			return fmt.Errorf("failed to insert token: %w", err)
		}
		return nil
	}

	if atomic, ok := s.tokens.(AtomicTokenStore); ok {
		return atomic.WithPrincipalLock(ctx, principalID, write)
	}
	return write(s.tokens)
}

// SendToken issues a push code and hands it to the configured Notifier.
// It returns the code expiry. Nothing is sent when issuing fails.
func (s *Service) SendToken(ctx context.Context, principalID string, method Method, destination string) (time.Time, error) {
	if s.notifier == nil {
		return time.Time{}, ErrNoNotifier
	}

	code, expiresAt, err := s.issueToken(ctx, principalID, method)
	if err != nil {
		return time.Time{}, err
	}

	if err := s.notifier.Notify(ctx, Delivery{
		PrincipalID: principalID,
		Method:      method,
		Destination: destination,
		Code:        code,
		ExpiresAt:   expiresAt,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to deliver one-time token",
			logger.PrincipalID(principalID),
			logger.Method(method),
			logger.Error(err),
			logger.Component("twofactor"),
		)
		return time.Time{}, fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	return expiresAt, nil
}

// VerifyToken checks a submitted push code against the principal's latest usable token.
// A match burns the token. A missing token and a wrong code both yield false with no error;
// wrong guesses leave the token usable. An error is returned only when the store fails.
func (s *Service) VerifyToken(ctx context.Context, principalID, code string) (bool, error) {
	now := s.clock.Now()

	token, err := s.tokens.LatestUsable(ctx, principalID, now)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			s.audit(ctx, principalID, EventTokenVerify, false)
			return false, nil
		}
		return false, s.storeFailure(ctx, "failed to load one-time token", principalID, err)
	}

	if !s.hasher.Verify(strings.TrimSpace(code), token.TokenHash) {
		s.audit(ctx, principalID, EventTokenVerify, false)
		return false, nil
	}

	if err := s.tokens.MarkUsed(ctx, token.ID, now); err != nil {
		if errors.Is(err, ErrTokenAlreadyUsed) {
			// A concurrent verify spent it first.
			s.audit(ctx, principalID, EventTokenVerify, false)
			return false, nil
		}
		return false, s.storeFailure(ctx, "failed to mark one-time token used", principalID, err)
	}

	s.audit(ctx, principalID, EventTokenVerify, true)
	return true, nil
}

// IssueTotpSecret generates a new authenticator secret and stores it, replacing
// any previous one.
func (s *Service) IssueTotpSecret(ctx context.Context, principalID string) (string, error) {
	if strings.TrimSpace(principalID) == "" {
		return "", ErrInvalidPrincipal
	}

	secret, err := totp.GenerateSecret(s.random)
	if err != nil {
		return "", fmt.Errorf("failed to generate totp secret: %w", err)
	}

	if err := s.secrets.Upsert(ctx, principalID, secret, s.clock.Now()); err != nil {
		return "", s.storeFailure(ctx, "failed to store totp secret", principalID, err)
	}

	if s.replay != nil {
		if err := s.replay.Reset(ctx, principalID); err != nil {
			s.logger.WarnContext(ctx, "failed to reset totp replay state",
				logger.PrincipalID(principalID),
				logger.Error(err),
				logger.Component("twofactor"),
			)
		}
	}

	s.audit(ctx, principalID, EventTotpIssued, true)
	return secret, nil
}

// Enroll issues a TOTP secret and renders it as an otpauth URI and a QR code image.
func (s *Service) Enroll(ctx context.Context, principalID, accountName string) (*Enrollment, error) {
	if strings.TrimSpace(accountName) == "" {
		return nil, totp.ErrMissingAccountName
	}

	secret, err := s.IssueTotpSecret(ctx, principalID)
	if err != nil {
		return nil, err
	}

	uri, err := totp.GetTOTPURI(totp.TOTPParams{
		Secret:      secret,
		AccountName: accountName,
		Issuer:      s.issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build otpauth uri: %w", err)
	}

	img, err := qrcode.GenerateBase64Image(uri, enrollmentQRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render enrollment qr code: %w", err)
	}

	return &Enrollment{Secret: secret, URI: uri, QRCode: img}, nil
}

// VerifyTotp checks a code from an authenticator app against the stored secret,
// tolerating the configured number of time steps either side of now.
// Replays inside the window are accepted unless a ReplayGuard is configured.
func (s *Service) VerifyTotp(ctx context.Context, principalID, code string) (bool, error) {
	secret, err := s.secrets.Get(ctx, principalID)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			s.audit(ctx, principalID, EventTotpVerify, false)
			return false, nil
		}
		return false, s.storeFailure(ctx, "failed to load totp secret", principalID, err)
	}

	ok, counter, err := totp.ValidateTOTP(secret.Secret, code, s.clock.Now(), s.skew)
	if err != nil {
		if !errors.Is(err, totp.ErrInvalidOTP) {
			s.logger.WarnContext(ctx, "stored totp secret is unusable",
				logger.PrincipalID(principalID),
				logger.Error(err),
				logger.Component("twofactor"),
			)
		}
		ok = false
	}

	if ok && s.replay != nil {
		ok, err = s.replay.Accept(ctx, principalID, counter)
		if err != nil {
			return false, s.storeFailure(ctx, "failed to check totp replay", principalID, err)
		}
	}

	s.audit(ctx, principalID, EventTotpVerify, ok)
	return ok, nil
}

// DisableTotp removes the principal's authenticator secret.
func (s *Service) DisableTotp(ctx context.Context, principalID string) error {
	if err := s.secrets.Delete(ctx, principalID); err != nil {
		return s.storeFailure(ctx, "failed to delete totp secret", principalID, err)
	}
	if s.replay != nil {
		if err := s.replay.Reset(ctx, principalID); err != nil {
			s.logger.WarnContext(ctx, "failed to reset totp replay state",
				logger.PrincipalID(principalID),
				logger.Error(err),
				logger.Component("twofactor"),
			)
		}
	}
	s.audit(ctx, principalID, EventTotpDisabled, true)
	return nil
}

// IsRequired reports whether resourceID is protected by a second factor.
func (s *Service) IsRequired(resourceID string) bool {
	return s.policy.IsRequired(resourceID)
}

// MarkPassed records that subject cleared the second factor for resourceID.
func (s *Service) MarkPassed(ctx context.Context, subject, resourceID string) error {
	if err := s.gate.MarkPassed(ctx, subject, resourceID); err != nil {
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	s.logger.DebugContext(ctx, "two-factor gate passed",
		logger.PrincipalID(subject),
		logger.ResourceID(resourceID),
		logger.Component("twofactor"),
	)
	return nil
}

// HasPassed reports whether subject cleared the second factor for resourceID
// within the gate lifetime.
func (s *Service) HasPassed(ctx context.Context, subject, resourceID string) (bool, error) {
	ok, err := s.gate.HasPassed(ctx, subject, resourceID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStore, err)
	}
	return ok, nil
}

// Cleanup deletes tokens that expired before now, used or not, and returns how many.
func (s *Service) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete expired tokens: %w", ErrStore, err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "expired one-time tokens deleted",
			logger.Count(n),
			logger.Component("twofactor"),
		)
	}
	return n, nil
}

func (s *Service) storeFailure(ctx context.Context, msg, principalID string, err error) error {
	s.logger.ErrorContext(ctx, msg,
		logger.PrincipalID(principalID),
		logger.Error(err),
		logger.Component("twofactor"),
	)
	return fmt.Errorf("%w: %s: %w", ErrStore, msg, err)
}

func (s *Service) audit(ctx context.Context, principalID, event string, success bool) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, principalID, event, success)
}
