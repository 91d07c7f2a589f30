package twofactor

import (
	"context"
	"io"
	"log/slog"

	"github.com/dmitrymomot/twofactor/pkg/audit"
	"github.com/dmitrymomot/twofactor/pkg/logger"
)

// AuditTrail forwards verification outcomes to an audit.Logger.
// Storage failures are logged and never fail the verification itself.
type AuditTrail struct {
	audit  audit.Logger
	logger *slog.Logger
}

// NewAuditTrail wraps an audit logger. A nil log discards audit write failures.
func NewAuditTrail(a audit.Logger, log *slog.Logger) *AuditTrail {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AuditTrail{audit: a, logger: log}
}

func (t *AuditTrail) Record(ctx context.Context, principalID, event string, success bool) {
	result := audit.ResultSuccess
	if !success {
		result = audit.ResultFailure
	}

	err := t.audit.Log(ctx, event,
		audit.WithPrincipal(principalID),
		audit.WithResource("twofactor", principalID),
		audit.WithResult(result),
	)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to record audit event",
			logger.PrincipalID(principalID),
			logger.Event(event),
			logger.Error(err),
			logger.Component("twofactor"),
		)
	}
}
