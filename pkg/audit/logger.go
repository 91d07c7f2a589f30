package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// contextExtractor extracts string values from context.
// It returns (value, found) where found indicates if extraction succeeded.
type contextExtractor func(context.Context) (string, bool)

type logger struct {
	storage            Storage
	now                func() time.Time
	principalExtractor contextExtractor
	sessionIDExtractor contextExtractor
	requestIDExtractor contextExtractor
	ipExtractor        contextExtractor
	userAgentExtractor contextExtractor
}

// Option configures the logger during initialization
type Option func(*logger)

func WithPrincipalIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.principalExtractor = fn }
}

func WithSessionIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.sessionIDExtractor = fn }
}

func WithRequestIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.requestIDExtractor = fn }
}

func WithIPExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.ipExtractor = fn }
}

func WithUserAgentExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *logger) { l.userAgentExtractor = fn }
}

// WithTimeSource overrides the clock used for CreatedAt.
func WithTimeSource(now func() time.Time) Option {
	return func(l *logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates a new audit logger
func NewLogger(storage Storage, opts ...Option) Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &logger{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action
func (l *logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultSuccess)
	return l.store(ctx, event, opts)
}

// LogError records a failed action
func (l *logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultError)
	if err != nil {
		event.Error = err.Error()
	}
	return l.store(ctx, event, opts)
}

func (l *logger) store(ctx context.Context, event Event, opts []EventOption) error {
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

func (l *logger) newEvent(ctx context.Context, action string, result Result) Event {
	event := Event{
		ID:        uuid.New().String(),
		Action:    action,
		Result:    result,
		CreatedAt: l.now(),
	}

	extract := func(fn contextExtractor, dst *string) {
		if fn == nil {
			return
		}
		if v, ok := fn(ctx); ok {
			*dst = v
		}
	}
	extract(l.principalExtractor, &event.PrincipalID)
	extract(l.sessionIDExtractor, &event.SessionID)
	extract(l.requestIDExtractor, &event.RequestID)
	extract(l.ipExtractor, &event.IP)
	extract(l.userAgentExtractor, &event.UserAgent)

	return event
}
