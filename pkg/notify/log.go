package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/twofactor/pkg/logger"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

// LogNotifier writes deliveries to a logger instead of sending them.
// It stands in for an SMS gateway in development and tests.
// The code is only logged when revealCode is set; otherwise it is masked.
type LogNotifier struct {
	logger     *slog.Logger
	revealCode bool
}

func NewLogNotifier(log *slog.Logger, revealCode bool) *LogNotifier {
	if log == nil {
		log = logger.Discard()
	}
	return &LogNotifier{logger: log, revealCode: revealCode}
}

func (n *LogNotifier) Notify(ctx context.Context, d twofactor.Delivery) error {
	if strings.TrimSpace(d.Destination) == "" {
		return ErrInvalidDestination
	}

	code := strings.Repeat("*", len(d.Code))
	if n.revealCode {
		code = d.Code
	}

	n.logger.InfoContext(ctx, "one-time code delivered",
		logger.PrincipalID(d.PrincipalID),
		logger.Method(d.Method),
		slog.String("destination", maskDestination(d.Destination)),
		slog.String("code", code),
		slog.Time("expires_at", d.ExpiresAt),
		logger.Component("notify"),
	)
	return nil
}

// maskDestination keeps the last four characters visible.
func maskDestination(s string) string {
	if len(s) <= 4 {
		return s
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
