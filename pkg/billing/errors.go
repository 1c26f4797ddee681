package billing

import "errors"

var (
	ErrMissingAPIKey             = errors.New("billing API key is required")
	ErrMissingWebhookSecret      = errors.New("billing webhook secret is required")
	ErrCustomerNotFound          = errors.New("billing customer not found")
	ErrNotFound                  = errors.New("billing object not found")
	ErrProviderUnavailable       = errors.New("billing provider unavailable")
	ErrRateLimited               = errors.New("billing provider rate limit exceeded")
	ErrUnauthorized              = errors.New("billing provider rejected credentials")
	ErrWebhookVerificationFailed = errors.New("webhook signature verification failed")
	ErrMalformedWebhook          = errors.New("malformed webhook payload")
	ErrMissingCustomerEmail      = errors.New("customer email is required")
	ErrMissingID                 = errors.New("billing object ID is required")
)
