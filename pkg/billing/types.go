package billing

import (
	"context"
	"strings"
	"time"
)

// Client is the read surface of the billing service.
type Client interface {
	// FindCustomerByEmail returns ErrCustomerNotFound when no customer matches.
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)
	// ListSubscriptions returns every subscription of the customer, all statuses,
	// newest first.
	ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error)
	// GetPrice returns the price with its product expanded when available.
	GetPrice(ctx context.Context, priceID string) (*Price, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
}

type Customer struct {
	ID    string
	Email string
}

// Subscription is the subset of a billing subscription the engine relies on.
// PriceID refers to the single line item.
type Subscription struct {
	ID                string
	CustomerID        string
	Status            Status
	Created           time.Time
	CurrentPeriodEnd  *time.Time
	CancelAtPeriodEnd bool
	PriceID           string
}

type Product struct {
	ID      string
	Name    string
	Active  bool
	Deleted bool
}

type Price struct {
	ID         string
	ProductID  string
	Product    *Product // nil unless expanded
	Nickname   string
	UnitAmount int64 // smallest currency unit
	Currency   string
	Active     bool
	Deleted    bool
}

// zero-decimal currencies per the billing service's documentation
var zeroDecimalCurrencies = map[string]struct{}{
	"bif": {}, "clp": {}, "djf": {}, "gnf": {}, "jpy": {}, "kmf": {}, "krw": {}, "mga": {},
	"pyg": {}, "rwf": {}, "ugx": {}, "vnd": {}, "vuv": {}, "xaf": {}, "xof": {}, "xpf": {},
}

// UnitPrice returns the unit amount in major currency units.
func (p *Price) UnitPrice() *float64 {
	if p == nil {
		return nil
	}
	v := float64(p.UnitAmount)
	if _, ok := zeroDecimalCurrencies[strings.ToLower(p.Currency)]; !ok {
		v /= 100
	}
	return &v
}

// PlanName returns the product name, falling back to the price nickname.
func (p *Price) PlanName() *string {
	if p == nil {
		return nil
	}
	if p.Product != nil && p.Product.Name != "" {
		name := p.Product.Name
		return &name
	}
	if p.Nickname != "" {
		name := p.Nickname
		return &name
	}
	return nil
}
