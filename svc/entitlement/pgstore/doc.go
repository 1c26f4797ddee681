// Package pgstore backs the entitlement stores with PostgreSQL.
//
// Store keeps one billing_subscriptions row per user. Listings and Users read
// from tables owned by the host application; their table and column names are
// configurable. The schema for billing_subscriptions ships in Migrations and is
// applied with pg.Migrate.
package pgstore
