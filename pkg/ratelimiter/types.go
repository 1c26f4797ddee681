package ratelimiter

import (
	"context"
	"time"
)

// Limiter is satisfied by Bucket.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
	AllowN(ctx context.Context, key string, n int) (*Result, error)
}

// Store persists bucket state.
type Store interface {
	// ConsumeTokens refills the bucket, then takes tokens if enough are left.
	// A negative remaining means the request is denied. tokens == 0 only
	// refreshes the state.
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Result of a single limiter check.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time // next refill
}

func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for allowed requests.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

type Config struct {
	Capacity       int           `env:"CAPACITY" envDefault:"5"`
	RefillRate     int           `env:"REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"10s"`
}
