package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// PrincipalID records the authenticated entity under the key "principal_id".
// An empty id yields an empty Attr.
func PrincipalID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("principal_id", id)
}

// ResourceID records the protected resource under the key "resource_id".
func ResourceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("resource_id", id)
}

// Method records the delivery or verification method under the key "method".
func Method(m any) slog.Attr {
	return slog.Any("method", m)
}

// TokenID records a one-time token identifier under the key "token_id".
// If id is nil, it returns an empty Attr.
func TokenID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("token_id", id)
}

// Count records a number of affected records under the key "count".
func Count(n int64) slog.Attr {
	return slog.Int64("count", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
