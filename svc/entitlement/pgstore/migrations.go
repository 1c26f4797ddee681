package pgstore

import "embed"

// Migrations holds the goose migrations for billing_subscriptions, rooted at
// MigrationsDir.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
