package ratelimiter

import "time"

// Result is the outcome of a rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the request was denied
	ResetAt   time.Time // next refill
}

// Allowed reports whether the tokens were granted.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long until the next refill, or 0 when allowed.
func (r *Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Config defines a token bucket.
type Config struct {
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"5"`        // burst size
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"1"`     // tokens added per interval
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1m"` // how often tokens are added
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return invalidConfig("capacity must be positive, got %d", c.Capacity)
	case c.RefillRate <= 0:
		return invalidConfig("refill rate must be positive, got %d", c.RefillRate)
	case c.RefillInterval <= 0:
		return invalidConfig("refill interval must be positive, got %v", c.RefillInterval)
	}
	return nil
}

// MaxIntervals is the number of refill intervals after which an idle bucket is full again.
func (c Config) MaxIntervals() int {
	return c.Capacity/c.RefillRate + 1
}
