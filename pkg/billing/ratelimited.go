package billing

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// RateLimitedClient throttles calls to the wrapped client with a token bucket.
// Callers block until a token is available or their context ends.
type RateLimitedClient struct {
	next    Client
	limiter *rate.Limiter
}

var _ Client = (*RateLimitedClient)(nil)

// NewRateLimitedClient allows rps calls per second with the given burst.
// A non-positive rps disables throttling.
func NewRateLimitedClient(next Client, rps float64, burst int) *RateLimitedClient {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedClient{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (c *RateLimitedClient) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Join(ErrRateLimited, err)
	}
	return nil
}

func (c *RateLimitedClient) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.next.FindCustomerByEmail(ctx, email)
}

func (c *RateLimitedClient) ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.next.ListSubscriptions(ctx, customerID)
}

func (c *RateLimitedClient) GetPrice(ctx context.Context, priceID string) (*Price, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.next.GetPrice(ctx, priceID)
}

func (c *RateLimitedClient) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return c.next.GetProduct(ctx, productID)
}
