package entitlement

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
)

// Record is the locally persisted subscription state of one user.
type Record struct {
	UserID            uuid.UUID
	CustomerID        string // immutable once set
	SubscriptionID    string // empty when the user has no subscription
	PriceID           string
	Status            billing.Status
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
	LastSyncedAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Entitling reports whether the record grants access to gated resources.
func (r *Record) Entitling() bool {
	return r != nil && r.SubscriptionID != "" && r.Status.Entitling()
}

// SyncedAt returns the last successful sync time, falling back to UpdatedAt.
func (r *Record) SyncedAt() (time.Time, bool) {
	switch {
	case r == nil:
		return time.Time{}, false
	case r.LastSyncedAt != nil:
		return *r.LastSyncedAt, true
	case !r.UpdatedAt.IsZero():
		return r.UpdatedAt, true
	default:
		return time.Time{}, false
	}
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.CurrentPeriodEnd = cloneTime(r.CurrentPeriodEnd)
	c.LastSyncedAt = cloneTime(r.LastSyncedAt)
	return &c
}

// sameBillingState compares the fields copied down from the billing service.
func (r *Record) sameBillingState(o *Record) bool {
	return r.CustomerID == o.CustomerID &&
		r.SubscriptionID == o.SubscriptionID &&
		r.PriceID == o.PriceID &&
		r.Status == o.Status &&
		r.CancelAtPeriodEnd == o.CancelAtPeriodEnd &&
		equalTime(r.CurrentPeriodEnd, o.CurrentPeriodEnd)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
