// Package billing is the boundary to the external billing service.
//
// Client is the narrow set of read operations the entitlement engine consumes:
// customer discovery by email, subscription listing across all statuses, and
// price/product catalog lookups. StripeClient implements it on top of an
// explicitly constructed stripe-go API handle; there is no package-level key or
// client. Decorators layer behavior on any Client:
//
//   - RateLimitedClient throttles outbound calls with a token bucket.
//   - CatalogCache memoizes price and product lookups for a short TTL.
//
// Subscription status is a closed enum. Any value the service introduces later
// parses to StatusUnknown, which never entitles.
//
// Webhook payloads are verified with WebhookVerifier and reduced to an Event
// carrying the identifiers needed to trigger a reconciliation.
package billing
