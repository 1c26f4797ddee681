package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/logger"
	"github.com/dmitrymomot/entitlements/pkg/planquota"
)

// Denial reasons shown to users.
const (
	ReasonNoActivePlan  = "no active plan"
	ReasonPlanNotActive = "plan not active"
	ReasonMustUpgrade   = "must upgrade plan"
)

// Decision is the outcome of a quota check. MaxCount is nil for an unlimited
// plan and for every denial that did not resolve a plan.
type Decision struct {
	Allowed      bool   `json:"canCreate"`
	Reason       string `json:"reason,omitempty"`
	CurrentCount int64  `json:"currentCount"`
	MaxCount     *int64 `json:"maxCount"`
	PlanLabel    string `json:"planLabel,omitempty"`
}

func deny(reason string, count int64) Decision {
	return Decision{Allowed: false, Reason: reason, CurrentCount: count}
}

// Gate decides whether a user may create another listing.
type Gate struct {
	records  RecordSource
	catalog  PriceCatalog
	counter  ListingCounter
	resolver *planquota.Resolver
	logger   *slog.Logger
}

func NewGate(records RecordSource, catalog PriceCatalog, counter ListingCounter, opts ...Option) *Gate {
	o := newOptions(opts)
	return &Gate{
		records:  records,
		catalog:  catalog,
		counter:  counter,
		resolver: o.resolver,
		logger:   o.logger.With(logger.Component("quota_gate")),
	}
}

// Check returns the quota decision for userID. It never fails: any error or
// panic while proving entitlement yields a denial with ReasonMustUpgrade.
func (g *Gate) Check(ctx context.Context, userID uuid.UUID) Decision {
	return g.check(ctx, userID, func(ctx context.Context) (*Record, error) {
		return g.records.Get(ctx, userID, false)
	})
}

// Require returns nil when creation is allowed, otherwise an error wrapping
// ErrQuotaExceeded that carries the denial reason.
func (g *Gate) Require(ctx context.Context, userID uuid.UUID) error {
	d := g.Check(ctx, userID)
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrQuotaExceeded, d.Reason)
}

func (g *Gate) check(ctx context.Context, userID uuid.UUID, load func(context.Context) (*Record, error)) Decision {
	var d Decision
	defer func() {
		GateDecisionsTotal.WithLabelValues(strconv.FormatBool(d.Allowed), d.Reason).Inc()
	}()

	count, err := g.counter.CountListings(ctx, userID)
	if err != nil {
		g.logger.ErrorContext(ctx, "listing count failed, denying",
			logger.UserID(userID),
			logger.Error(errors.Join(ErrCountFailed, err)),
		)
		d = deny(ReasonMustUpgrade, 0)
		return d
	}

	d, err = g.evaluate(ctx, count, load)
	if err != nil {
		g.logger.WarnContext(ctx, "entitlement could not be proven, denying",
			logger.UserID(userID),
			logger.Error(err),
		)
		d = deny(ReasonMustUpgrade, count)
	}
	return d
}

func (g *Gate) evaluate(ctx context.Context, count int64, load func(context.Context) (*Record, error)) (d Decision, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrGateFailure, p)
		}
	}()

	rec, err := load(ctx)
	if err != nil {
		return Decision{}, err
	}
	switch {
	case rec == nil, rec.Status == billing.StatusNone:
		return deny(ReasonNoActivePlan, count), nil
	case !rec.Status.Entitling():
		return deny(ReasonPlanNotActive, count), nil
	case rec.PriceID == "", rec.SubscriptionID == "":
		return deny(ReasonNoActivePlan, count), nil
	}

	quota, err := g.resolvePlan(ctx, rec.PriceID)
	if err != nil {
		return Decision{}, err
	}

	d = Decision{
		Allowed:      quota.Allows(count),
		CurrentCount: count,
		MaxCount:     quota.MaxPtr(),
		PlanLabel:    quota.Label,
	}
	if !d.Allowed {
		d.Reason = ReasonMustUpgrade
	}
	return d, nil
}

// resolvePlan looks up the price and its product and maps them to a quota.
// Deleted catalog objects and unmatched plans are errors on this path.
func (g *Gate) resolvePlan(ctx context.Context, priceID string) (planquota.Quota, error) {
	price, err := g.catalog.GetPrice(ctx, priceID)
	if err != nil {
		return planquota.Quota{}, fmt.Errorf("get price: %w", err)
	}
	if price.Deleted {
		return planquota.Quota{}, fmt.Errorf("%w: price %s deleted", ErrUnresolvedPlan, priceID)
	}

	if price.Product == nil && price.ProductID != "" {
		product, err := g.catalog.GetProduct(ctx, price.ProductID)
		if err != nil {
			return planquota.Quota{}, fmt.Errorf("get product: %w", err)
		}
		price.Product = product
	}
	if price.Product != nil && price.Product.Deleted {
		return planquota.Quota{}, fmt.Errorf("%w: product %s deleted", ErrUnresolvedPlan, price.Product.ID)
	}

	quota := g.resolver.Resolve(price.PlanName(), price.UnitPrice())
	if quota.IsUnknown() {
		return planquota.Quota{}, fmt.Errorf("%w: price %s", ErrUnresolvedPlan, priceID)
	}
	return quota, nil
}
