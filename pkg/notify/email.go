package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/twofactor/pkg/email"
	"github.com/dmitrymomot/twofactor/pkg/email/templates"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

// EmailTag marks code messages at the provider for filtering and stats.
const EmailTag = "2fa-code"

// EmailNotifier renders the verification code template and sends it through an email.EmailSender.
type EmailNotifier struct {
	sender email.EmailSender
	issuer string
	now    func() time.Time
}

// EmailOption configures an EmailNotifier.
type EmailOption func(*EmailNotifier)

// WithEmailClock sets the time source used to compute "expires in".
func WithEmailClock(now func() time.Time) EmailOption {
	return func(n *EmailNotifier) {
		if now != nil {
			n.now = now
		}
	}
}

func NewEmailNotifier(sender email.EmailSender, issuer string, opts ...EmailOption) *EmailNotifier {
	n := &EmailNotifier{sender: sender, issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *EmailNotifier) Notify(ctx context.Context, d twofactor.Delivery) error {
	if !email.IsValidEmail(d.Destination) {
		return fmt.Errorf("%w: %q is not an email address", ErrInvalidDestination, d.Destination)
	}

	body, err := templates.Render(ctx, templates.VerificationCode(templates.CodeData{
		Issuer:    n.issuer,
		Code:      d.Code,
		ExpiresIn: d.ExpiresAt.Sub(n.now()),
	}))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   d.Destination,
		Subject:  fmt.Sprintf("Your %s verification code", n.issuer),
		BodyHTML: body,
		Tag:      EmailTag,
	})
}
