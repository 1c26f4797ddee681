package billing

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

// Event is a verified webhook notification reduced to what reconciliation needs.
// The payload is treated as a hint only; state is always re-read from the API.
type Event struct {
	ID         string
	Type       string
	ObjectID   string
	CustomerID string
	Created    time.Time
}

// IsSubscriptionEvent reports whether the event concerns a customer's subscription.
func (e *Event) IsSubscriptionEvent() bool {
	return strings.HasPrefix(e.Type, "customer.subscription.") ||
		e.Type == "checkout.session.completed" ||
		strings.HasPrefix(e.Type, "invoice.payment_")
}

// IsCatalogEvent reports whether the event changes a price or product.
func (e *Event) IsCatalogEvent() bool {
	return strings.HasPrefix(e.Type, "price.") || strings.HasPrefix(e.Type, "product.")
}

// WebhookVerifier checks webhook signatures against the endpoint secret.
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
}

// NewWebhookVerifier returns ErrMissingWebhookSecret for an empty secret.
func NewWebhookVerifier(secret string, tolerance time.Duration) (*WebhookVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingWebhookSecret
	}
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &WebhookVerifier{secret: secret, tolerance: tolerance}, nil
}

// Parse verifies the signature header and decodes the event.
func (v *WebhookVerifier) Parse(payload []byte, signature string) (*Event, error) {
	if strings.TrimSpace(signature) == "" {
		return nil, ErrWebhookVerificationFailed
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, errors.Join(ErrWebhookVerificationFailed, err)
	}

	out := &Event{
		ID:      ev.ID,
		Type:    string(ev.Type),
		Created: time.Unix(ev.Created, 0).UTC(),
	}
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return out, nil
	}

	var obj struct {
		ID       string          `json:"id"`
		Object   string          `json:"object"`
		Customer json.RawMessage `json:"customer"`
	}
	if err := json.Unmarshal(ev.Data.Raw, &obj); err != nil {
		return nil, errors.Join(ErrMalformedWebhook, err)
	}
	out.ObjectID = obj.ID

	if obj.Object == "customer" {
		out.CustomerID = obj.ID
		return out, nil
	}
	customerID, err := objectRef(obj.Customer)
	if err != nil {
		return nil, errors.Join(ErrMalformedWebhook, err)
	}
	out.CustomerID = customerID
	return out, nil
}

// objectRef reads a reference that is either an ID string or an expanded object.
func objectRef(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var id string
		err := json.Unmarshal(raw, &id)
		return id, err
	}
	var obj struct {
		ID string `json:"id"`
	}
	err := json.Unmarshal(raw, &obj)
	return obj.ID, err
}
