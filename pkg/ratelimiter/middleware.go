package ratelimiter

import (
	"net/http"
	"strconv"
	"time"
)

// KeyFunc extracts a rate limit key from the request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// MiddlewareConfig wires a limiter into an HTTP stack.
type MiddlewareConfig struct {
	Limiter RateLimiter
	Key     KeyFunc
	// OnLimited answers denied requests. Defaults to a plain 429.
	OnLimited http.Handler
	// OnError answers when the limiter fails. Defaults to a plain 503;
	// requests are never let through unchecked.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
	Now     func() time.Time
}

// Middleware limits requests per key and sets X-RateLimit-* headers.
func Middleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil || cfg.Key == nil {
		panic("ratelimiter.Middleware: Limiter and Key are required")
	}
	if cfg.OnLimited == nil {
		cfg.OnLimited = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		})
	}
	if cfg.OnError == nil {
		cfg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.Key(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Limiter.Allow(r.Context(), key)
			if err != nil {
				cfg.OnError(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if secs := int(result.RetryAfter(cfg.Now()).Round(time.Second).Seconds()); secs > 0 {
					h.Set("Retry-After", strconv.Itoa(secs))
				}
				cfg.OnLimited.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
