package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/entitlements/pkg/logger"
)

// Syncer reconciles a user's record with the billing service.
type Syncer interface {
	Reconcile(ctx context.Context, userID uuid.UUID) (*Record, error)
}

// RecordSource yields the current record of a user, syncing it when required.
type RecordSource interface {
	Get(ctx context.Context, userID uuid.UUID, forceSync bool) (*Record, error)
}

// Cache serves records from the Store and reconciles them when stale.
type Cache struct {
	store  Store
	syncer Syncer
	ttl    TTLPolicy
	now    func() time.Time
	logger *slog.Logger
	flight singleflight.Group
}

var _ RecordSource = (*Cache)(nil)

func NewCache(store Store, syncer Syncer, opts ...Option) *Cache {
	o := newOptions(opts)
	return &Cache{
		store:  store,
		syncer: syncer,
		ttl:    o.ttl,
		now:    o.now,
		logger: o.logger.With(logger.Component("entitlement_cache")),
	}
}

// TTL returns the freshness policy in effect.
func (c *Cache) TTL() TTLPolicy {
	return c.ttl
}

// Get returns the user's record, reconciling first when forced, when the record
// cannot entitle as stored, or when it is older than its TTL. The record may be
// nil if the user has no billing identity.
//
// When reconciliation fails, the record loaded before the attempt is returned
// along with an error wrapping ErrSyncFailed, so read paths can show stale data
// while gating paths deny.
func (c *Cache) Get(ctx context.Context, userID uuid.UUID, forceSync bool) (*Record, error) {
	rec, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	decision := decideSync(rec, c.now(), forceSync, c.ttl)
	CacheLookupsTotal.WithLabelValues(string(decision)).Inc()
	if decision == triggerFresh {
		return rec, nil
	}

	// a forced sync must observe state newer than any flight already running
	key := userID.String()
	if forceSync {
		key = "force:" + key
	}
	_, err, _ = c.flight.Do(key, func() (any, error) {
		return c.syncer.Reconcile(ctx, userID)
	})
	if err != nil {
		c.logger.WarnContext(ctx, "entitlement sync failed",
			logger.UserID(userID),
			slog.String("trigger", string(decision)),
			logger.Error(err),
		)
		return rec, errors.Join(ErrSyncFailed, err)
	}

	fresh, err := c.load(ctx, userID)
	if err != nil {
		return rec, errors.Join(ErrSyncFailed, err)
	}
	if fresh == nil {
		return rec, nil
	}
	return fresh, nil
}

func (c *Cache) load(ctx context.Context, userID uuid.UUID) (*Record, error) {
	rec, err := c.store.Get(ctx, userID)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load subscription record: %w", err)
	}
	return rec, nil
}
