package entitlement

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/jwtauth"
	"github.com/dmitrymomot/entitlements/pkg/logger"
	"github.com/dmitrymomot/entitlements/pkg/ratelimiter"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

// Service is implemented by *entitlement.Service.
type Service interface {
	CheckQuota(ctx context.Context, userID uuid.UUID) entitlement.Decision
	Summary(ctx context.Context, userID uuid.UUID) (*entitlement.Summary, error)
	Sync(ctx context.Context, userID uuid.UUID) (*entitlement.Summary, error)
	HandleEvent(ctx context.Context, ev *billing.Event) error
}

// WebhookParser is implemented by *billing.WebhookVerifier.
type WebhookParser interface {
	Parse(payload []byte, signature string) (*billing.Event, error)
}

// RouterOptions wires the module. Webhooks and SyncLimiter are optional; the
// webhook route is only mounted when Webhooks is set.
type RouterOptions struct {
	Service        Service
	Auth           *jwtauth.Service
	Webhooks       WebhookParser
	SyncLimiter    ratelimiter.Limiter
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

type handler struct {
	svc      Service
	webhooks WebhookParser
	log      *slog.Logger
}

// Router returns the module router, meant to be mounted under /entitlement.
func Router(opts RouterOptions) chi.Router {
	h := &handler{
		svc:      opts.Service,
		webhooks: opts.Webhooks,
		log:      logger.OrDiscard(opts.Logger).With(logger.Component("entitlement_http")),
	}

	r := chi.NewRouter()
	if opts.RequestTimeout > 0 {
		r.Use(withTimeout(opts.RequestTimeout))
	}

	if h.webhooks != nil {
		r.Post("/webhook", h.webhook)
	}

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Middleware(opts.Auth, func(w http.ResponseWriter, _ *http.Request, _ error) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
		}))

		r.Get("/quota", h.quota)
		r.Get("/summary", h.summary)

		if opts.SyncLimiter != nil {
			r.With(ratelimiter.Middleware(opts.SyncLimiter, callerKey,
				ratelimiter.WithDeniedHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeError(w, http.StatusTooManyRequests, "too many sync requests")
				}),
				ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
					h.log.ErrorContext(r.Context(), "sync rate limiter failed", logger.Error(err))
					writeError(w, http.StatusServiceUnavailable, "try again later")
				}),
			)).Post("/sync", h.sync)
		} else {
			r.Post("/sync", h.sync)
		}
	})

	return r
}

// withTimeout bounds the request context; handlers fail closed on expiry.
func withTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// callerKey limits /sync per authenticated user, falling back to the client IP.
func callerKey(r *http.Request) string {
	if claims, ok := jwtauth.ClaimsFromContext(r.Context()); ok {
		if id, err := claims.UserID(); err == nil {
			return "sync:" + id.String()
		}
	}
	return "sync-ip:" + ratelimiter.RemoteIP(r)
}
