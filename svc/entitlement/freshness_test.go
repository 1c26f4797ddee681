package entitlement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

func TestShouldSync_TTL(t *testing.T) {
	t.Parallel()

	ttl := entitlement.DefaultTTLPolicy()
	userID := uuid.New()

	tests := []struct {
		name   string
		status billing.Status
		age    time.Duration
		want   bool
	}{
		{"active 29m", billing.StatusActive, 29 * time.Minute, false},
		{"active 31m", billing.StatusActive, 31 * time.Minute, true},
		{"trialing 10m", billing.StatusTrialing, 10 * time.Minute, false},
		{"incomplete 3m", billing.StatusIncomplete, 3 * time.Minute, true},
		{"incomplete 1m", billing.StatusIncomplete, time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := activeRecord(userID, baseTime.Add(-tt.age))
			rec.Status = tt.status
			assert.Equal(t, tt.want, entitlement.ShouldSync(rec, baseTime, false, ttl))
		})
	}
}

func TestShouldSync_IncompleteTTLWithinWindow(t *testing.T) {
	t.Parallel()

	rec := activeRecord(uuid.New(), baseTime.Add(-time.Minute))
	rec.Status = billing.StatusIncomplete

	// fresh by TTL, but still synced because the status cannot entitle
	assert.False(t, entitlement.Expired(rec, baseTime, entitlement.DefaultTTLPolicy()))
	assert.True(t, entitlement.NeedsSync(rec))
}

func TestShouldSync_Forced(t *testing.T) {
	t.Parallel()

	rec := activeRecord(uuid.New(), baseTime)
	assert.False(t, entitlement.ShouldSync(rec, baseTime, false, entitlement.DefaultTTLPolicy()))
	assert.True(t, entitlement.ShouldSync(rec, baseTime, true, entitlement.DefaultTTLPolicy()))
}

func TestNeedsSync(t *testing.T) {
	t.Parallel()

	assert.True(t, entitlement.NeedsSync(nil))

	rec := activeRecord(uuid.New(), baseTime)
	assert.False(t, entitlement.NeedsSync(rec))

	noPrice := rec.Clone()
	noPrice.PriceID = ""
	assert.True(t, entitlement.NeedsSync(noPrice))

	noSub := rec.Clone()
	noSub.SubscriptionID = ""
	assert.True(t, entitlement.NeedsSync(noSub))

	canceled := rec.Clone()
	canceled.Status = billing.StatusCanceled
	assert.True(t, entitlement.NeedsSync(canceled))

	unknown := rec.Clone()
	unknown.Status = billing.StatusUnknown
	assert.True(t, entitlement.NeedsSync(unknown))
}

func TestExpired_FallsBackToUpdatedAt(t *testing.T) {
	t.Parallel()

	ttl := entitlement.DefaultTTLPolicy()
	rec := activeRecord(uuid.New(), baseTime)
	rec.LastSyncedAt = nil
	rec.UpdatedAt = baseTime.Add(-10 * time.Minute)
	assert.False(t, entitlement.Expired(rec, baseTime, ttl))

	rec.UpdatedAt = time.Time{}
	assert.True(t, entitlement.Expired(rec, baseTime, ttl))
}

func TestTTLPolicy_Custom(t *testing.T) {
	t.Parallel()

	ttl := entitlement.TTLPolicy{Active: 5 * time.Minute, Pending: 30 * time.Second}
	rec := activeRecord(uuid.New(), baseTime.Add(-6*time.Minute))
	assert.True(t, entitlement.ShouldSync(rec, baseTime, false, ttl))
	assert.Equal(t, 30*time.Second, ttl.For(billing.StatusIncompleteExpired))
}
