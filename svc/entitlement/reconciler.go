package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/logger"
)

// Reconciler copies the authoritative billing subscription of a user into the Store.
type Reconciler struct {
	store    Store
	accounts BillingAccounts
	users    UserDirectory
	logger   *slog.Logger
	now      func() time.Time
}

// NewReconciler creates a Reconciler. users may be nil, in which case customers
// are never discovered by email and only records with a known customer sync.
func NewReconciler(store Store, accounts BillingAccounts, users UserDirectory, opts ...Option) *Reconciler {
	o := newOptions(opts)
	return &Reconciler{
		store:    store,
		accounts: accounts,
		users:    users,
		logger:   o.logger.With(logger.Component("reconciler")),
		now:      o.now,
	}
}

// Reconcile syncs the user's record with the billing service and returns the
// resulting record, which may be nil when the user has no billing identity.
//
// A billing or directory failure returns the record as it was before the call
// together with the error; nothing is written. A store write failure is logged
// and the pre-write record is returned without an error.
func (r *Reconciler) Reconcile(ctx context.Context, userID uuid.UUID) (*Record, error) {
	start := time.Now()
	outcome := outcomeError
	defer func() {
		ReconciliationsTotal.WithLabelValues(outcome).Inc()
		ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	existing, err := r.store.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		existing = nil
	case err != nil:
		return nil, fmt.Errorf("load subscription record: %w", err)
	}

	var customerID string
	discovered := false
	if existing != nil {
		customerID = existing.CustomerID
	}
	if customerID == "" {
		cust, err := r.discoverCustomer(ctx, userID)
		if err != nil {
			return existing, err
		}
		if cust == nil {
			outcome = outcomeNoCustomer
			return existing, nil
		}
		customerID = cust.ID
		discovered = true
	}

	subs, err := r.accounts.ListSubscriptions(ctx, customerID)
	if err != nil {
		return existing, errors.Join(ErrReconcileFailed, err)
	}

	var known string
	if existing != nil {
		known = existing.SubscriptionID
	}
	target := SelectSubscription(subs, known)
	now := r.now().UTC()

	var next *Record
	switch {
	case target != nil:
		next = applySubscription(existing, userID, customerID, target, now)
	case discovered:
		next = applyCustomer(existing, userID, customerID, now)
	default:
		outcome = outcomeNoSubscription
		return existing, nil
	}

	if err := r.persist(ctx, next); err != nil {
		outcome = outcomeWriteFailed
		r.logger.ErrorContext(ctx, "failed to persist subscription record",
			logger.UserID(userID),
			logger.CustomerID(customerID),
			logger.Error(err),
		)
		return existing, nil
	}

	if target == nil {
		outcome = outcomeNoSubscription
	} else {
		outcome = outcomeSynced
		r.logger.DebugContext(ctx, "subscription reconciled",
			logger.UserID(userID),
			logger.SubscriptionID(target.ID),
			logger.Status(target.Status.String()),
		)
	}
	return next, nil
}

func (r *Reconciler) discoverCustomer(ctx context.Context, userID uuid.UUID) (*billing.Customer, error) {
	if r.users == nil {
		return nil, nil
	}

	email, err := r.users.Email(ctx, userID)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, nil
	case err != nil:
		return nil, errors.Join(ErrEmailLookupFailed, err)
	}
	if strings.TrimSpace(email) == "" {
		return nil, nil
	}

	cust, err := r.accounts.FindCustomerByEmail(ctx, email)
	switch {
	case errors.Is(err, billing.ErrCustomerNotFound):
		return nil, nil
	case err != nil:
		return nil, errors.Join(ErrReconcileFailed, err)
	}
	return cust, nil
}

// persist upserts rec, retrying once as a plain update on a write conflict.
func (r *Reconciler) persist(ctx context.Context, rec *Record) error {
	err := r.store.Upsert(ctx, rec)
	if !errors.Is(err, ErrConflict) {
		return err
	}
	StoreWriteConflictsTotal.Inc()
	r.logger.WarnContext(ctx, "subscription record upsert conflict, retrying as update",
		logger.UserID(rec.UserID),
		logger.Error(err),
	)
	return r.store.Update(ctx, rec)
}

func applySubscription(prev *Record, userID uuid.UUID, customerID string, sub *billing.Subscription, now time.Time) *Record {
	next := prev.Clone()
	if next == nil {
		next = &Record{UserID: userID, CreatedAt: now}
	}
	if next.CustomerID == "" {
		next.CustomerID = customerID
	}
	next.SubscriptionID = sub.ID
	next.PriceID = sub.PriceID
	next.Status = sub.Status
	next.CurrentPeriodEnd = cloneTime(sub.CurrentPeriodEnd)
	next.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
	next.LastSyncedAt = &now
	if prev == nil || !next.sameBillingState(prev) {
		next.UpdatedAt = now
	}
	return next
}

// applyCustomer records a newly discovered customer without a subscription.
func applyCustomer(prev *Record, userID uuid.UUID, customerID string, now time.Time) *Record {
	next := prev.Clone()
	if next == nil {
		next = &Record{UserID: userID, Status: billing.StatusNone, CreatedAt: now}
	}
	next.CustomerID = customerID
	next.LastSyncedAt = &now
	next.UpdatedAt = now
	return next
}
