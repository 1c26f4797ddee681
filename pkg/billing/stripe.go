package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeClient implements Client against the Stripe API.
type StripeClient struct {
	api    *client.API
	logger *slog.Logger
}

// StripeOption configures a StripeClient.
type StripeOption func(*stripeOptions)

type stripeOptions struct {
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
}

// WithStripeLogger routes the SDK's own logging through slog.
func WithStripeLogger(l *slog.Logger) StripeOption {
	return func(o *stripeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStripeBaseURL points the client at a different API host, e.g. stripe-mock.
func WithStripeBaseURL(u string) StripeOption {
	return func(o *stripeOptions) {
		o.baseURL = strings.TrimRight(u, "/")
	}
}

// WithStripeHTTPClient sets the HTTP client used for API calls.
func WithStripeHTTPClient(c *http.Client) StripeOption {
	return func(o *stripeOptions) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// NewStripeClient builds a client with its own backend; it never touches stripe.Key.
func NewStripeClient(cfg Config, opts ...StripeOption) (*StripeClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	o := &stripeOptions{
		logger:     slog.New(slog.DiscardHandler),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}

	bc := &stripe.BackendConfig{
		HTTPClient:        o.httpClient,
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
		LeveledLogger:     &leveledLogger{log: o.logger},
	}
	if o.baseURL != "" {
		bc.URL = stripe.String(o.baseURL)
	}
	apiBackend := stripe.GetBackendWithConfig(stripe.APIBackend, bc)

	return &StripeClient{
		api: client.New(strings.TrimSpace(cfg.APIKey), &stripe.Backends{
			API:     apiBackend,
			Connect: apiBackend,
			Uploads: apiBackend,
		}),
		logger: o.logger,
	}, nil
}

// FindCustomerByEmail returns the first non-deleted customer with exactly this email.
func (c *StripeClient) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingCustomerEmail
	}

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(10)

	it := c.api.Customers.List(params)
	for it.Next() {
		cust := it.Customer()
		if cust == nil || cust.Deleted {
			continue
		}
		return &Customer{ID: cust.ID, Email: cust.Email}, nil
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", mapStripeError(err))
	}
	return nil, ErrCustomerNotFound
}

// ListSubscriptions pages through every subscription of the customer.
func (c *StripeClient) ListSubscriptions(ctx context.Context, customerID string) ([]Subscription, error) {
	if customerID == "" {
		return nil, ErrMissingID
	}

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var subs []Subscription
	it := c.api.Subscriptions.List(params)
	for it.Next() {
		if s := it.Subscription(); s != nil {
			subs = append(subs, subscriptionFromStripe(s))
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", mapStripeError(err))
	}
	return subs, nil
}

// GetPrice retrieves a price with its product expanded.
func (c *StripeClient) GetPrice(ctx context.Context, priceID string) (*Price, error) {
	if priceID == "" {
		return nil, ErrMissingID
	}

	params := &stripe.PriceParams{}
	params.Context = ctx
	params.AddExpand("product")

	p, err := c.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, fmt.Errorf("get price %s: %w", priceID, mapStripeError(err))
	}
	return priceFromStripe(p), nil
}

func (c *StripeClient) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if productID == "" {
		return nil, ErrMissingID
	}

	params := &stripe.ProductParams{}
	params.Context = ctx

	p, err := c.api.Products.Get(productID, params)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, mapStripeError(err))
	}
	return productFromStripe(p), nil
}

func subscriptionFromStripe(s *stripe.Subscription) Subscription {
	sub := Subscription{
		ID:                s.ID,
		Status:            ParseStatus(string(s.Status)),
		Created:           time.Unix(s.Created, 0).UTC(),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
	if s.Customer != nil {
		sub.CustomerID = s.Customer.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 {
		item := s.Items.Data[0]
		if item.Price != nil {
			sub.PriceID = item.Price.ID
		}
		if item.CurrentPeriodEnd > 0 {
			end := time.Unix(item.CurrentPeriodEnd, 0).UTC()
			sub.CurrentPeriodEnd = &end
		}
	}
	return sub
}

func priceFromStripe(p *stripe.Price) *Price {
	price := &Price{
		ID:         p.ID,
		Nickname:   p.Nickname,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
		Active:     p.Active,
		Deleted:    p.Deleted,
	}
	if p.Product != nil {
		price.ProductID = p.Product.ID
		// an unexpanded product decodes with only its ID set
		if p.Product.Name != "" || p.Product.Deleted {
			price.Product = productFromStripe(p.Product)
		}
	}
	return price
}

func productFromStripe(p *stripe.Product) *Product {
	return &Product{
		ID:      p.ID,
		Name:    p.Name,
		Active:  p.Active,
		Deleted: p.Deleted,
	}
}

func mapStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return errors.Join(ErrProviderUnavailable, err)
	}
	switch se.HTTPStatusCode {
	case http.StatusNotFound:
		return errors.Join(ErrNotFound, err)
	case http.StatusTooManyRequests:
		return errors.Join(ErrRateLimited, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Join(ErrUnauthorized, err)
	default:
		return errors.Join(ErrProviderUnavailable, err)
	}
}

// leveledLogger adapts slog to stripe.LeveledLoggerInterface.
type leveledLogger struct {
	log *slog.Logger
}

func (l *leveledLogger) Debugf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *leveledLogger) Infof(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *leveledLogger) Warnf(format string, v ...any) {
	l.log.Warn(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}

func (l *leveledLogger) Errorf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...), slog.String("component", "stripe"))
}
