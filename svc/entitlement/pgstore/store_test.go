package pgstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
	"github.com/dmitrymomot/entitlements/svc/entitlement/pgstore"
)

func TestStoreGet(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	end := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	db := &fakeDB{row: func(dest ...any) error {
		require.Len(t, dest, 10)
		*dest[0].(*uuid.UUID) = userID
		*dest[1].(*string) = "cus_1"
		*dest[2].(*string) = "sub_1"
		*dest[3].(*string) = "price_1"
		*dest[4].(*string) = "trialing"
		*dest[5].(**time.Time) = &end
		*dest[6].(*bool) = true
		*dest[8].(*time.Time) = created
		*dest[9].(*time.Time) = created
		return nil
	}}

	rec, err := pgstore.NewStore(db).Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, rec.UserID)
	assert.Equal(t, "cus_1", rec.CustomerID)
	assert.Equal(t, billing.StatusTrialing, rec.Status)
	assert.True(t, rec.CancelAtPeriodEnd)
	require.NotNil(t, rec.CurrentPeriodEnd)
	assert.True(t, end.Equal(*rec.CurrentPeriodEnd))
	assert.Nil(t, rec.LastSyncedAt)
	assert.Contains(t, db.lastQuery(), "WHERE user_id = $1")
}

func TestStoreGetNotFound(t *testing.T) {
	t.Parallel()

	db := &fakeDB{row: func(...any) error { return pgx.ErrNoRows }}
	_, err := pgstore.NewStore(db).Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entitlement.ErrRecordNotFound)
}

func TestStoreFindByCustomerIDEmpty(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	_, err := pgstore.NewStore(db).FindByCustomerID(context.Background(), "")
	assert.ErrorIs(t, err, entitlement.ErrRecordNotFound)
	assert.Empty(t, db.queries)
}

func TestStoreUpsert(t *testing.T) {
	t.Parallel()

	t.Run("keeps existing customer id", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{execTag: "INSERT 0 1"}
		rec := &entitlement.Record{UserID: uuid.New(), CustomerID: "cus_1"}
		require.NoError(t, pgstore.NewStore(db).Upsert(context.Background(), rec))

		q := db.lastQuery()
		assert.Contains(t, q, "ON CONFLICT (user_id) DO UPDATE")
		assert.Contains(t, q, "COALESCE(NULLIF(billing_subscriptions.customer_id, ''), EXCLUDED.customer_id)")
		assert.NotContains(t, q, "created_at = EXCLUDED")

		args := db.lastArgs()
		require.Len(t, args, 10)
		assert.Equal(t, "none", args[4], "empty status is stored as none")
		assert.False(t, args[8].(time.Time).IsZero())
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{execErr: &pgconn.PgError{Code: "23505"}}
		err := pgstore.NewStore(db).Upsert(context.Background(), &entitlement.Record{UserID: uuid.New()})
		assert.ErrorIs(t, err, entitlement.ErrConflict)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		db := &fakeDB{execErr: boom}
		err := pgstore.NewStore(db).Upsert(context.Background(), &entitlement.Record{UserID: uuid.New()})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, entitlement.ErrConflict)
	})
}

func TestStoreUpdate(t *testing.T) {
	t.Parallel()

	t.Run("missing row", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{execTag: "UPDATE 0"}
		err := pgstore.NewStore(db).Update(context.Background(), &entitlement.Record{UserID: uuid.New()})
		assert.ErrorIs(t, err, entitlement.ErrRecordNotFound)
	})

	t.Run("updated", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{execTag: "UPDATE 1"}
		rec := &entitlement.Record{UserID: uuid.New(), Status: billing.StatusActive}
		require.NoError(t, pgstore.NewStore(db).Update(context.Background(), rec))
		assert.Equal(t, "active", db.lastArgs()[4])
	})
}
