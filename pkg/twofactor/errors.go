package twofactor

import "errors"

var (
	// ErrStore reports that a persistence collaborator failed. Callers must not
	// proceed as if the operation happened (e.g. must not send a code).
	ErrStore = errors.New("twofactor: store failure")

	ErrInvalidPrincipal  = errors.New("twofactor: principal id is required")
	ErrUnsupportedMethod = errors.New("twofactor: unsupported delivery method")
	ErrDelivery          = errors.New("twofactor: code delivery failed")
	ErrNoNotifier        = errors.New("twofactor: notifier is not configured")
)

// Store-level errors. Implementations of TokenStore and SecretStore return these
// so the service can tell "nothing there" from a broken backend.
var (
	ErrTokenNotFound    = errors.New("twofactor: token not found")
	ErrTokenAlreadyUsed = errors.New("twofactor: token already used")
	ErrSecretNotFound   = errors.New("twofactor: totp secret not found")
)
