package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/pg"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

const recordColumns = `user_id, customer_id, subscription_id, price_id, status,
	current_period_end, cancel_at_period_end, last_synced_at, created_at, updated_at`

// Store implements entitlement.Store on the billing_subscriptions table.
type Store struct {
	db DB
}

var _ entitlement.Store = (*Store)(nil)

func NewStore(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	return s.scanOne(ctx, `SELECT `+recordColumns+` FROM billing_subscriptions WHERE user_id = $1`, userID)
}

func (s *Store) FindByCustomerID(ctx context.Context, customerID string) (*entitlement.Record, error) {
	if customerID == "" {
		return nil, entitlement.ErrRecordNotFound
	}
	return s.scanOne(ctx, `SELECT `+recordColumns+` FROM billing_subscriptions WHERE customer_id = $1`, customerID)
}

// Upsert never overwrites a customer_id already on file, nor created_at.
func (s *Store) Upsert(ctx context.Context, rec *entitlement.Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO billing_subscriptions (`+recordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (user_id) DO UPDATE SET
			customer_id = COALESCE(NULLIF(billing_subscriptions.customer_id, ''), EXCLUDED.customer_id),
			subscription_id = EXCLUDED.subscription_id,
			price_id = EXCLUDED.price_id,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			last_synced_at = EXCLUDED.last_synced_at,
			updated_at = EXCLUDED.updated_at`,
		recordArgs(rec)...)
	if err != nil {
		return writeError("upsert", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, rec *entitlement.Record) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE billing_subscriptions SET
			customer_id = COALESCE(NULLIF(customer_id, ''), $2),
			subscription_id = $3, price_id = $4, status = $5,
			current_period_end = $6, cancel_at_period_end = $7,
			last_synced_at = $8, updated_at = $10
		WHERE user_id = $1`,
		recordArgs(rec)...)
	if err != nil {
		return writeError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return entitlement.ErrRecordNotFound
	}
	return nil
}

func (s *Store) scanOne(ctx context.Context, query string, arg any) (*entitlement.Record, error) {
	var (
		rec    entitlement.Record
		status string
	)
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&rec.UserID, &rec.CustomerID, &rec.SubscriptionID, &rec.PriceID, &status,
		&rec.CurrentPeriodEnd, &rec.CancelAtPeriodEnd, &rec.LastSyncedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, entitlement.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get subscription record: %w", err)
	}
	rec.Status = billing.ParseStatus(status)
	return &rec, nil
}

// Column order matches recordColumns.
func recordArgs(rec *entitlement.Record) []any {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = created
	}
	status := rec.Status
	if status == "" {
		status = billing.StatusNone
	}
	return []any{
		rec.UserID, rec.CustomerID, rec.SubscriptionID, rec.PriceID, string(status),
		rec.CurrentPeriodEnd, rec.CancelAtPeriodEnd, rec.LastSyncedAt,
		created, updated,
	}
}

func writeError(op string, err error) error {
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(entitlement.ErrConflict, fmt.Errorf("%s subscription record: %w", op, err))
	}
	return fmt.Errorf("%s subscription record: %w", op, err)
}
