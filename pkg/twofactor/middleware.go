package twofactor

import (
	"net/http"
)

// SubjectFunc extracts the session or principal id from a request.
// An empty result means the request is anonymous.
type SubjectFunc func(r *http.Request) string

// ResourceFunc maps a request to the protected resource id.
type ResourceFunc func(r *http.Request) string

// MiddlewareConfig configures the gate middleware.
type MiddlewareConfig struct {
	Service     *Service
	Subject     SubjectFunc  // required
	Resource    ResourceFunc // defaults to the request path
	OnChallenge http.Handler // called when 2FA is required but not passed; defaults to 403
	OnError     http.Handler // called when the gate store fails; defaults to 500
}

// Middleware lets a request through when its resource does not require a second
// factor or the subject already passed it for that resource.
func Middleware(config MiddlewareConfig) func(next http.Handler) http.Handler {
	if config.Service == nil || config.Subject == nil {
		panic("twofactor.Middleware: Service and Subject are required")
	}
	if config.Resource == nil {
		config.Resource = func(r *http.Request) string { return r.URL.Path }
	}
	if config.OnChallenge == nil {
		config.OnChallenge = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "two-factor authentication required", http.StatusForbidden)
		})
	}
	if config.OnError == nil {
		config.OnError = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource := config.Resource(r)
			if !config.Service.IsRequired(resource) {
				next.ServeHTTP(w, r)
				return
			}

			subject := config.Subject(r)
			if subject == "" {
				config.OnChallenge.ServeHTTP(w, r)
				return
			}

			passed, err := config.Service.HasPassed(r.Context(), subject, resource)
			if err != nil {
				config.OnError.ServeHTTP(w, r)
				return
			}
			if !passed {
				config.OnChallenge.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
