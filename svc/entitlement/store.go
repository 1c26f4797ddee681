package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
)

// Store persists one Record per user.
type Store interface {
	// Get returns ErrRecordNotFound when the user has no record.
	Get(ctx context.Context, userID uuid.UUID) (*Record, error)
	// Upsert creates or replaces the record keyed by UserID. A non-empty
	// CustomerID already on file is never replaced. Returns ErrConflict on a
	// uniqueness violation.
	Upsert(ctx context.Context, rec *Record) error
	// Update replaces an existing record; ErrRecordNotFound if there is none.
	Update(ctx context.Context, rec *Record) error
	FindByCustomerID(ctx context.Context, customerID string) (*Record, error)
}

// UserDirectory resolves the email used to discover a billing customer.
type UserDirectory interface {
	// Email returns ErrUserNotFound for an unknown user.
	Email(ctx context.Context, userID uuid.UUID) (string, error)
}

// ListingCounter counts the listings a user owns.
type ListingCounter interface {
	CountListings(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ListingCounterFunc adapts a function to ListingCounter.
type ListingCounterFunc func(ctx context.Context, userID uuid.UUID) (int64, error)

func (f ListingCounterFunc) CountListings(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f(ctx, userID)
}

// BillingAccounts is the part of billing.Client the reconciler reads.
type BillingAccounts interface {
	FindCustomerByEmail(ctx context.Context, email string) (*billing.Customer, error)
	ListSubscriptions(ctx context.Context, customerID string) ([]billing.Subscription, error)
}

// PriceCatalog is the part of billing.Client the gate reads.
type PriceCatalog interface {
	GetPrice(ctx context.Context, priceID string) (*billing.Price, error)
	GetProduct(ctx context.Context, productID string) (*billing.Product, error)
}

// CatalogInvalidator drops cached catalog entries.
type CatalogInvalidator interface {
	Invalidate(id string)
	InvalidateAll()
}
