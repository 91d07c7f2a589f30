package audit

import (
	"context"
	"fmt"
	"time"
)

// Result represents the outcome of an audited action
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Event represents a single audit log entry
type Event struct {
	ID          string         `json:"id"`
	PrincipalID string         `json:"principal_id"`
	SessionID   string         `json:"session_id,omitempty"`
	Action      string         `json:"action"`
	Resource    string         `json:"resource,omitempty"`
	ResourceID  string         `json:"resource_id,omitempty"`
	Result      Result         `json:"result"`
	Error       string         `json:"error,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	IP          string         `json:"ip,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Validate checks if the event has all required fields
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	switch e.Result {
	case ResultSuccess, ResultFailure, ResultError:
	default:
		return fmt.Errorf("%w: unknown result %q", ErrEventValidation, e.Result)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// Logger records audit events.
type Logger interface {
	// Log records an action with ResultSuccess unless an option overrides it.
	Log(ctx context.Context, action string, opts ...EventOption) error
	// LogError records an action that failed with err.
	LogError(ctx context.Context, action string, err error, opts ...EventOption) error
}

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}
