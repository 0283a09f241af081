package ratelimiter

import (
	"fmt"
	"time"
)

// Result describes one rate limit decision.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // tokens left; negative when the request was denied
	ResetAt   time.Time // next refill
}

func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is how long a denied caller should wait. Zero when allowed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

// Config is the env-tagged limiter configuration. The defaults allow a burst
// of 30 issuance calls per client, refilled at 10 per minute.
type Config struct {
	Enabled        bool          `env:"RATELIMIT_ENABLED" envDefault:"true"`
	Store          string        `env:"RATELIMIT_STORE" envDefault:"memory"`
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"30"`
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"10"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1m"`
	MaxKeys        int           `env:"RATELIMIT_MAX_KEYS" envDefault:"100000"`
}

// fullRefill is the time an empty bucket needs to become full again.
func (c Config) fullRefill() time.Duration {
	intervals := (c.Capacity + c.RefillRate - 1) / c.RefillRate
	return time.Duration(intervals) * c.RefillInterval
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}
