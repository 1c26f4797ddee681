package pgstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlements/svc/entitlement"
	"github.com/dmitrymomot/entitlements/svc/entitlement/pgstore"
)

func TestListingsCount(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: func(dest ...any) error {
		*dest[0].(*int64) = 4
		return nil
	}}
	n, err := pgstore.NewListings(db, "", "").CountListings(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, `SELECT count(*) FROM "listings" WHERE "user_id" = $1`, db.lastQuery())
}

func TestListingsIdentifiersAreQuoted(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: func(dest ...any) error { return errors.New("boom") }}
	_, err := pgstore.NewListings(db, `ads"; DROP TABLE x; --`, "owner").CountListings(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entitlement.ErrCountFailed)
	assert.Equal(t, `SELECT count(*) FROM "ads""; DROP TABLE x; --" WHERE "owner" = $1`, db.lastQuery())
}

func TestUsersEmail(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: func(dest ...any) error {
			*dest[0].(*string) = "jane@example.com"
			return nil
		}}
		email, err := pgstore.NewUsers(db, "accounts", "", "").Email(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", email)
		assert.Equal(t, `SELECT "email" FROM "accounts" WHERE "id" = $1`, db.lastQuery())
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: func(...any) error { return pgx.ErrNoRows }}
		_, err := pgstore.NewUsers(db, "", "", "").Email(context.Background(), uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrUserNotFound)
	})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: func(...any) error { return errors.New("timeout") }}
		_, err := pgstore.NewUsers(db, "", "", "").Email(context.Background(), uuid.New())
		assert.ErrorIs(t, err, entitlement.ErrEmailLookupFailed)
	})
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := pgstore.Migrations.ReadDir(pgstore.MigrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_billing_subscriptions.sql", entries[0].Name())
}
