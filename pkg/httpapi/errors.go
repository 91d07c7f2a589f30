package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/twofactor/pkg/totp"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

var (
	ErrMissingAPIToken = errors.New("httpapi: api token is required")
	ErrMissingService  = errors.New("httpapi: service is required")

	errUnauthorized = errors.New("missing or invalid bearer token")
	errBadJSON      = errors.New("request body must be a JSON object")

	errRateLimited        = errors.New("too many verification attempts")
	errLimiterUnavailable = errors.New("rate limiter unavailable")
)

// ErrorDetail is the "error" member of every failed response.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// validationError lists invalid request fields.
type validationError map[string]string

func (v validationError) Error() string { return "validation failed" }

// classify maps service errors to a status and a client-safe detail.
// Store failures never expose the underlying cause.
func classify(err error) (int, ErrorDetail) {
	var verr validationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, ErrorDetail{Code: "validation_error", Message: verr.Error(), Fields: verr}
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, ErrorDetail{Code: "unauthorized", Message: err.Error()}
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, ErrorDetail{Code: "rate_limited", Message: err.Error()}
	case errors.Is(err, errLimiterUnavailable):
		return http.StatusServiceUnavailable, ErrorDetail{Code: "unavailable", Message: http.StatusText(http.StatusServiceUnavailable)}
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest, ErrorDetail{Code: "bad_request", Message: err.Error()}
	case errors.Is(err, twofactor.ErrInvalidPrincipal),
		errors.Is(err, twofactor.ErrUnsupportedMethod),
		errors.Is(err, totp.ErrMissingAccountName):
		return http.StatusUnprocessableEntity, ErrorDetail{Code: "invalid_request", Message: err.Error()}
	case errors.Is(err, twofactor.ErrNoNotifier):
		return http.StatusNotImplemented, ErrorDetail{Code: "delivery_unavailable", Message: "code delivery is not configured"}
	case errors.Is(err, twofactor.ErrDelivery):
		return http.StatusBadGateway, ErrorDetail{Code: "delivery_failed", Message: "code could not be delivered"}
	default:
		return http.StatusInternalServerError, ErrorDetail{Code: "internal_error", Message: http.StatusText(http.StatusInternalServerError)}
	}
}
