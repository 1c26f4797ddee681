package billing

import (
	"context"
	"time"

	"github.com/dmitrymomot/entitlements/pkg/cache"
)

// CatalogCache memoizes price and product lookups. Customer and subscription
// reads always pass through, since they are the state being reconciled.
type CatalogCache struct {
	next     Client
	prices   *cache.Expiring[string, *Price]
	products *cache.Expiring[string, *Product]
}

var _ Client = (*CatalogCache)(nil)

// NewCatalogCache keeps up to size prices and size products for ttl.
func NewCatalogCache(next Client, size int, ttl time.Duration, opts ...cache.Option) *CatalogCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{
		next:     next,
		prices:   cache.NewExpiring[string, *Price](size, ttl, opts...),
		products: cache.NewExpiring[string, *Product](size, ttl, opts...),
	}
}

func (c *CatalogCache) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	return c.next.FindCustomerByEmail(ctx, email)
}

func (c *CatalogCache) ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error) {
	return c.next.ListSubscriptions(ctx, customerID)
}

func (c *CatalogCache) GetPrice(ctx context.Context, priceID string) (*Price, error) {
	if p, ok := c.prices.Get(priceID); ok {
		return clonePrice(p), nil
	}
	p, err := c.next.GetPrice(ctx, priceID)
	if err != nil {
		return nil, err
	}
	c.prices.Put(priceID, clonePrice(p))
	return p, nil
}

func (c *CatalogCache) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if p, ok := c.products.Get(productID); ok {
		cp := *p
		return &cp, nil
	}
	p, err := c.next.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	cp := *p
	c.products.Put(productID, &cp)
	return p, nil
}

// Invalidate drops a cached price or product by ID.
func (c *CatalogCache) Invalidate(id string) {
	c.prices.Remove(id)
	c.products.Remove(id)
}

// InvalidateAll empties the cache.
func (c *CatalogCache) InvalidateAll() {
	c.prices.Purge()
	c.products.Purge()
}

func clonePrice(p *Price) *Price {
	cp := *p
	if p.Product != nil {
		prod := *p.Product
		cp.Product = &prod
	}
	return &cp
}
