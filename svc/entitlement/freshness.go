package entitlement

import (
	"time"

	"github.com/dmitrymomot/entitlements/pkg/billing"
)

// TTLPolicy bounds how long a stored record is trusted without a sync.
type TTLPolicy struct {
	Active  time.Duration `env:"ENTITLEMENT_ACTIVE_TTL" envDefault:"30m"` // any status other than pending
	Pending time.Duration `env:"ENTITLEMENT_PENDING_TTL" envDefault:"2m"` // incomplete and incomplete_expired
}

func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{Active: 30 * time.Minute, Pending: 2 * time.Minute}
}

// For returns the TTL that applies to status.
func (p TTLPolicy) For(status billing.Status) time.Duration {
	if status.Pending() {
		return p.Pending
	}
	return p.Active
}

type syncTrigger string

const (
	triggerFresh   syncTrigger = "fresh"
	triggerForced  syncTrigger = "forced"
	triggerMissing syncTrigger = "needs_sync"
	triggerExpired syncTrigger = "expired"
)

// NeedsSync reports whether the record cannot entitle as stored.
func NeedsSync(rec *Record) bool {
	return rec == nil ||
		!rec.Status.Entitling() ||
		rec.PriceID == "" ||
		rec.SubscriptionID == ""
}

// Expired reports whether the record is older than its status TTL.
func Expired(rec *Record, now time.Time, ttl TTLPolicy) bool {
	at, ok := rec.SyncedAt()
	if !ok {
		return true
	}
	return now.Sub(at) > ttl.For(rec.Status)
}

// ShouldSync reports whether a read must reconcile with the billing service first.
func ShouldSync(rec *Record, now time.Time, force bool, ttl TTLPolicy) bool {
	return decideSync(rec, now, force, ttl) != triggerFresh
}

func decideSync(rec *Record, now time.Time, force bool, ttl TTLPolicy) syncTrigger {
	switch {
	case force:
		return triggerForced
	case NeedsSync(rec):
		return triggerMissing
	case Expired(rec, now, ttl):
		return triggerExpired
	default:
		return triggerFresh
	}
}
