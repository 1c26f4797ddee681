// Package entitlement keeps a local copy of each user's billing subscription in
// step with the billing service and decides, fail-closed, whether the user may
// create another listing.
//
// # Components
//
//   - Reconciler pulls the user's subscriptions from the billing service,
//     selects the authoritative one and upserts it into the Store. It never
//     clears fields when nothing is selected or the service is unreachable.
//   - Cache decides per call whether the stored Record is fresh enough, using a
//     status-dependent TTL, and runs the Reconciler when it is not. Concurrent
//     calls for one user share a single reconciliation.
//   - Gate counts the user's listings, reads the Record through the Cache,
//     resolves the plan quota and returns a Decision. Any failure on the way
//     denies with ReasonMustUpgrade.
//   - Service ties the pieces together for HTTP handlers: quota checks, the
//     stale-tolerant settings summary, forced syncs and webhook hints.
//
// # Usage
//
//	rec := entitlement.NewReconciler(store, billingClient, users, entitlement.WithLogger(log))
//	cache := entitlement.NewCache(store, rec, entitlement.WithTTL(ttl))
//	gate := entitlement.NewGate(cache, billingClient, listings)
//	svc := entitlement.NewService(cache, gate, store)
//
//	if err := svc.RequireQuota(ctx, userID); err != nil {
//		// errors.Is(err, entitlement.ErrQuotaExceeded)
//	}
//
// Only the active and trialing statuses entitle. Every other status, including
// billing.StatusUnknown for values the billing service adds later, denies.
package entitlement
