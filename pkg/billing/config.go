package billing

import "time"

// Config holds billing service settings.
type Config struct {
	APIKey            string        `env:"STRIPE_API_KEY,required"`
	WebhookSecret     string        `env:"STRIPE_WEBHOOK_SECRET"`
	WebhookTolerance  time.Duration `env:"STRIPE_WEBHOOK_TOLERANCE" envDefault:"5m"`
	MaxNetworkRetries int64         `env:"STRIPE_MAX_NETWORK_RETRIES" envDefault:"2"`
	RequestsPerSecond float64       `env:"BILLING_RPS" envDefault:"20"`
	Burst             int           `env:"BILLING_BURST" envDefault:"10"`
	CatalogTTL        time.Duration `env:"BILLING_CATALOG_TTL" envDefault:"5m"`
	CatalogSize       int           `env:"BILLING_CATALOG_SIZE" envDefault:"256"`
}
