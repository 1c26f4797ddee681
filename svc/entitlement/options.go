package entitlement

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/entitlements/pkg/logger"
	"github.com/dmitrymomot/entitlements/pkg/planquota"
)

// Option configures the components of this package. Each constructor reads
// only the settings relevant to it.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	now      func() time.Time
	ttl      TTLPolicy
	resolver *planquota.Resolver
	catalog  CatalogInvalidator
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:   logger.Discard(),
		now:      time.Now,
		ttl:      DefaultTTLPolicy(),
		resolver: planquota.DefaultResolver(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTTL sets the freshness policy; zero durations keep the defaults.
func WithTTL(p TTLPolicy) Option {
	return func(o *options) {
		if p.Active > 0 {
			o.ttl.Active = p.Active
		}
		if p.Pending > 0 {
			o.ttl.Pending = p.Pending
		}
	}
}

// WithResolver replaces the built-in plan tier table.
func WithResolver(r *planquota.Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithCatalogInvalidator lets catalog webhooks drop cached prices and products.
func WithCatalogInvalidator(c CatalogInvalidator) Option {
	return func(o *options) {
		if c != nil {
			o.catalog = c
		}
	}
}
