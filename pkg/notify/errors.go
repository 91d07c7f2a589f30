package notify

import "errors"

var (
	ErrNoRoute            = errors.New("notify: no notifier for method")
	ErrInvalidDestination = errors.New("notify: invalid destination")
	ErrRender             = errors.New("notify: failed to render message")
)
