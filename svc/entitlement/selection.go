package entitlement

import (
	"slices"

	"github.com/dmitrymomot/entitlements/pkg/billing"
)

// SelectSubscription picks the authoritative subscription, or nil.
//
// Candidates are ordered newest first by creation time. The first active or
// trialing one wins. Failing that, the subscription already on record is kept
// when it is still listed, so its move to canceled or past_due is observed.
// Only when no subscription is on record does the newest incomplete or
// incomplete_expired one qualify.
func SelectSubscription(subs []billing.Subscription, knownSubscriptionID string) *billing.Subscription {
	if len(subs) == 0 {
		return nil
	}

	sorted := slices.Clone(subs)
	slices.SortStableFunc(sorted, func(a, b billing.Subscription) int {
		return b.Created.Compare(a.Created)
	})

	for i := range sorted {
		if sorted[i].Status.Entitling() {
			return &sorted[i]
		}
	}

	if knownSubscriptionID != "" {
		for i := range sorted {
			if sorted[i].ID == knownSubscriptionID {
				return &sorted[i]
			}
		}
		return nil
	}

	for i := range sorted {
		if sorted[i].Status.Pending() {
			return &sorted[i]
		}
	}
	return nil
}
