package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/pg"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

// Users reads account emails from the host application's users table.
type Users struct {
	db    DB
	query string
}

var _ entitlement.UserDirectory = (*Users)(nil)

// NewUsers defaults to table "users" with columns "id" and "email".
func NewUsers(db DB, table, idColumn, emailColumn string) *Users {
	if table == "" {
		table = "users"
	}
	if idColumn == "" {
		idColumn = "id"
	}
	if emailColumn == "" {
		emailColumn = "email"
	}
	return &Users{
		db:    db,
		query: fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, ident(emailColumn), ident(table), ident(idColumn)),
	}
}

func (u *Users) Email(ctx context.Context, userID uuid.UUID) (string, error) {
	var email string
	if err := u.db.QueryRow(ctx, u.query, userID).Scan(&email); err != nil {
		if pg.IsNotFoundError(err) {
			return "", entitlement.ErrUserNotFound
		}
		return "", errors.Join(entitlement.ErrEmailLookupFailed, err)
	}
	return email, nil
}
