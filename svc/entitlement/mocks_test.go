package entitlement_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

var baseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func timePtr(t time.Time) *time.Time { return &t }

type mockBilling struct {
	mock.Mock
}

func (m *mockBilling) FindCustomerByEmail(ctx context.Context, email string) (*billing.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *mockBilling) ListSubscriptions(ctx context.Context, customerID string) ([]billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *mockBilling) GetPrice(ctx context.Context, priceID string) (*billing.Price, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Price), args.Error(1)
}

func (m *mockBilling) GetProduct(ctx context.Context, productID string) (*billing.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Product), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlement.Record), args.Error(1)
}

func (m *mockStore) Upsert(ctx context.Context, rec *entitlement.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) Update(ctx context.Context, rec *entitlement.Record) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockStore) FindByCustomerID(ctx context.Context, customerID string) (*entitlement.Record, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entitlement.Record), args.Error(1)
}

// staticUsers maps user IDs to emails.
type staticUsers map[uuid.UUID]string

func (u staticUsers) Email(_ context.Context, userID uuid.UUID) (string, error) {
	email, ok := u[userID]
	if !ok {
		return "", entitlement.ErrUserNotFound
	}
	return email, nil
}

func fixedCount(n int64) entitlement.ListingCounterFunc {
	return func(context.Context, uuid.UUID) (int64, error) { return n, nil }
}

// blockingSyncer holds every Reconcile call until released.
type blockingSyncer struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingSyncer() *blockingSyncer {
	return &blockingSyncer{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (s *blockingSyncer) Reconcile(ctx context.Context, _ uuid.UUID) (*entitlement.Record, error) {
	s.calls.Add(1)
	s.entered <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return nil, nil
}

func (s *blockingSyncer) Release() {
	s.once.Do(func() { close(s.release) })
}

// syncerFunc adapts a function to entitlement.Syncer.
type syncerFunc func(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error)

func (f syncerFunc) Reconcile(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	return f(ctx, userID)
}

func activeRecord(userID uuid.UUID, syncedAt time.Time) *entitlement.Record {
	return &entitlement.Record{
		UserID:         userID,
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
		PriceID:        "price_base",
		Status:         billing.StatusActive,
		LastSyncedAt:   timePtr(syncedAt),
		CreatedAt:      syncedAt,
		UpdatedAt:      syncedAt,
	}
}
