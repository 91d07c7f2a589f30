package twofactor

import (
	"time"

	"github.com/google/uuid"
)

// Method identifies how a one-time code reaches the principal.
type Method string

const (
	MethodEmail Method = "email"
	MethodSMS   Method = "sms"
	MethodTOTP  Method = "totp" // bookkeeping only; TOTP codes never produce token rows
)

// IsPush reports whether the method delivers a server-generated code out of band.
func (m Method) IsPush() bool {
	return m == MethodEmail || m == MethodSMS
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m.IsPush() || m == MethodTOTP
}

func (m Method) String() string { return string(m) }

// OneTimeToken is a hashed push code issued to a principal.
type OneTimeToken struct {
	ID          uuid.UUID
	PrincipalID string
	TokenHash   string
	Method      Method
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UsedAt      *time.Time
}

// Usable reports whether the token can still be redeemed at now.
// A token is dead at or after ExpiresAt and once UsedAt is set.
func (t OneTimeToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && t.ExpiresAt.After(now)
}

// TotpSecret is the shared secret of a principal's authenticator app.
type TotpSecret struct {
	PrincipalID string
	Secret      string
	UpdatedAt   time.Time
}

// Delivery is what a Notifier needs to send a push code.
type Delivery struct {
	PrincipalID string
	Method      Method
	Destination string // email address or phone number
	Code        string
	ExpiresAt   time.Time
}

// Enrollment bundles everything needed to register an authenticator app.
type Enrollment struct {
	Secret string
	URI    string // otpauth:// key URI
	QRCode string // PNG data URI of URI
}

// Audit event names.
const (
	EventTokenIssued  = "twofactor.token.issue"
	EventTokenVerify  = "twofactor.token.verify"
	EventTotpIssued   = "twofactor.totp.issue"
	EventTotpVerify   = "twofactor.totp.verify"
	EventTotpDisabled = "twofactor.totp.disable"
	EventGatePassed   = "twofactor.gate.pass"
)
