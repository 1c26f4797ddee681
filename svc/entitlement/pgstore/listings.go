package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

// Listings counts rows of the host application's listings table per owner.
type Listings struct {
	db    DB
	query string
}

var _ entitlement.ListingCounter = (*Listings)(nil)

// NewListings defaults to table "listings" and owner column "user_id".
func NewListings(db DB, table, ownerColumn string) *Listings {
	if table == "" {
		table = "listings"
	}
	if ownerColumn == "" {
		ownerColumn = "user_id"
	}
	return &Listings{
		db:    db,
		query: fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`, ident(table), ident(ownerColumn)),
	}
}

func (l *Listings) CountListings(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := l.db.QueryRow(ctx, l.query, userID).Scan(&n); err != nil {
		return 0, errors.Join(entitlement.ErrCountFailed, err)
	}
	return n, nil
}
