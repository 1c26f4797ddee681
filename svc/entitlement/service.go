package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/logger"
)

// Summary is the settings-page view of a user's entitlement.
type Summary struct {
	UserID            uuid.UUID      `json:"userId"`
	Status            billing.Status `json:"status"`
	Entitled          bool           `json:"entitled"`
	PriceID           string         `json:"planPriceRef,omitempty"`
	CurrentPeriodEnd  *time.Time     `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool           `json:"cancelAtPeriodEnd"`
	LastSyncedAt      *time.Time     `json:"lastSyncedAt,omitempty"`
	Stale             bool           `json:"stale"`
	Quota             Decision       `json:"quota"`
}

// Service is the entry point used by HTTP handlers and the CLI.
type Service struct {
	cache   *Cache
	gate    *Gate
	store   Store
	catalog CatalogInvalidator
	logger  *slog.Logger
}

func NewService(cache *Cache, gate *Gate, store Store, opts ...Option) *Service {
	o := newOptions(opts)
	return &Service{
		cache:   cache,
		gate:    gate,
		store:   store,
		catalog: o.catalog,
		logger:  o.logger.With(logger.Component("entitlement_service")),
	}
}

// CheckQuota reports whether the user may create another listing.
func (s *Service) CheckQuota(ctx context.Context, userID uuid.UUID) Decision {
	return s.gate.Check(ctx, userID)
}

// RequireQuota returns an error wrapping ErrQuotaExceeded when creation is denied.
func (s *Service) RequireQuota(ctx context.Context, userID uuid.UUID) error {
	return s.gate.Require(ctx, userID)
}

// Summary returns the user's entitlement for display. A failed reconciliation
// does not fail the call: the previous record is shown with Stale set, and the
// embedded quota decision is a denial.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	return s.summary(ctx, userID, false)
}

// Sync forces a reconciliation for the user and returns the refreshed summary.
func (s *Service) Sync(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	return s.summary(ctx, userID, true)
}

func (s *Service) summary(ctx context.Context, userID uuid.UUID, force bool) (*Summary, error) {
	rec, err := s.cache.Get(ctx, userID, force)
	stale := false
	if err != nil {
		if !errors.Is(err, ErrSyncFailed) {
			return nil, err
		}
		stale = true
	}
	syncErr := err

	sum := &Summary{
		UserID: userID,
		Status: billing.StatusNone,
		Stale:  stale,
	}
	if rec != nil {
		sum.Status = rec.Status
		sum.Entitled = rec.Entitling()
		sum.PriceID = rec.PriceID
		sum.CurrentPeriodEnd = cloneTime(rec.CurrentPeriodEnd)
		sum.CancelAtPeriodEnd = rec.CancelAtPeriodEnd
		sum.LastSyncedAt = cloneTime(rec.LastSyncedAt)
	}

	// the record was just read, so the gate must not sync again
	sum.Quota = s.gate.check(ctx, userID, func(context.Context) (*Record, error) {
		return rec, syncErr
	})
	return sum, nil
}

// HandleEvent reacts to a verified billing webhook. Subscription events force
// a reconciliation for the mapped user; catalog events drop cached prices and
// products. Events for customers not on record are ignored.
func (s *Service) HandleEvent(ctx context.Context, ev *billing.Event) error {
	outcome := outcomeIgnored
	defer func() {
		WebhookEventsTotal.WithLabelValues(ev.Type, outcome).Inc()
	}()

	switch {
	case ev.IsCatalogEvent():
		if s.catalog != nil {
			s.catalog.InvalidateAll()
			outcome = outcomeInvalidated
		}
		return nil

	case ev.IsSubscriptionEvent():
		if ev.CustomerID == "" {
			return nil
		}
		rec, err := s.store.FindByCustomerID(ctx, ev.CustomerID)
		if errors.Is(err, ErrRecordNotFound) {
			outcome = outcomeUnmapped
			s.logger.DebugContext(ctx, "webhook for unknown customer",
				logger.EventID(ev.ID),
				logger.EventType(ev.Type),
				logger.CustomerID(ev.CustomerID),
			)
			return nil
		}
		if err != nil {
			outcome = outcomeFailed
			return err
		}
		if _, err := s.cache.Get(ctx, rec.UserID, true); err != nil {
			outcome = outcomeFailed
			return err
		}
		outcome = outcomeSynced
		return nil

	default:
		return nil
	}
}
