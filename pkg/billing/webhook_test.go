package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/dmitrymomot/entitlements/pkg/billing"
)

const testWebhookSecret = "whsec_test_secret"

func signed(t *testing.T, payload string) (body []byte, header string) {
	t.Helper()

	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return sp.Payload, sp.Header
}

func TestNewWebhookVerifier_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := billing.NewWebhookVerifier(" ", 0)
	assert.ErrorIs(t, err, billing.ErrMissingWebhookSecret)
}

func TestWebhookVerifier_Parse(t *testing.T) {
	t.Parallel()

	v, err := billing.NewWebhookVerifier(testWebhookSecret, 0)
	require.NoError(t, err)

	t.Run("subscription event", func(t *testing.T) {
		t.Parallel()

		body, header := signed(t, `{"id":"evt_1","object":"event","type":"customer.subscription.updated","created":1700000000,
			"data":{"object":{"id":"sub_1","object":"subscription","customer":"cus_1","status":"active"}}}`)

		ev, err := v.Parse(body, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_1", ev.ID)
		assert.Equal(t, "sub_1", ev.ObjectID)
		assert.Equal(t, "cus_1", ev.CustomerID)
		assert.True(t, ev.IsSubscriptionEvent())
		assert.False(t, ev.IsCatalogEvent())
	})

	t.Run("expanded customer", func(t *testing.T) {
		t.Parallel()

		body, header := signed(t, `{"id":"evt_2","object":"event","type":"invoice.payment_failed",
			"data":{"object":{"id":"in_1","object":"invoice","customer":{"id":"cus_2","object":"customer"}}}}`)

		ev, err := v.Parse(body, header)
		require.NoError(t, err)
		assert.Equal(t, "cus_2", ev.CustomerID)
		assert.True(t, ev.IsSubscriptionEvent())
	})

	t.Run("catalog event", func(t *testing.T) {
		t.Parallel()

		body, header := signed(t, `{"id":"evt_3","object":"event","type":"price.updated",
			"data":{"object":{"id":"price_1","object":"price"}}}`)

		ev, err := v.Parse(body, header)
		require.NoError(t, err)
		assert.Equal(t, "price_1", ev.ObjectID)
		assert.Empty(t, ev.CustomerID)
		assert.True(t, ev.IsCatalogEvent())
	})

	t.Run("bad signature", func(t *testing.T) {
		t.Parallel()

		body, _ := signed(t, `{"id":"evt_4","object":"event","type":"customer.subscription.deleted","data":{"object":{}}}`)
		_, err := v.Parse(body, "t=1,v1=deadbeef")
		assert.ErrorIs(t, err, billing.ErrWebhookVerificationFailed)
	})

	t.Run("missing signature", func(t *testing.T) {
		t.Parallel()

		_, err := v.Parse([]byte(`{}`), "")
		assert.ErrorIs(t, err, billing.ErrWebhookVerificationFailed)
	})
}
