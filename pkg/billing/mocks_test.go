package billing_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/entitlements/pkg/billing"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) FindCustomerByEmail(ctx context.Context, email string) (*billing.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *mockClient) ListSubscriptions(ctx context.Context, customerID string) ([]billing.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Subscription), args.Error(1)
}

func (m *mockClient) GetPrice(ctx context.Context, priceID string) (*billing.Price, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Price), args.Error(1)
}

func (m *mockClient) GetProduct(ctx context.Context, productID string) (*billing.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Product), args.Error(1)
}
