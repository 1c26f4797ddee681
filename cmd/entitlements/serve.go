package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	entitlementhttp "github.com/dmitrymomot/entitlements/modules/entitlement"
	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/httpserver"
	"github.com/dmitrymomot/entitlements/pkg/jwtauth"
	"github.com/dmitrymomot/entitlements/pkg/logger"
	"github.com/dmitrymomot/entitlements/pkg/pg"
	"github.com/dmitrymomot/entitlements/pkg/ratelimiter"
	"github.com/dmitrymomot/entitlements/pkg/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		cfg, err := loadConfig[serveConfig]()
		if err != nil {
			return err
		}

		redisClient, err := redis.Connect(ctx, cfg.Redis, a.log)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				a.log.Error("failed to close redis client", logger.Error(err))
			}
		}()

		auth, err := jwtauth.New(cfg.JWT)
		if err != nil {
			return err
		}
		syncLimiter, err := ratelimiter.NewBucket(
			ratelimiter.NewRedisStore(redisClient, ratelimiter.WithKeyPrefix("entitlements:ratelimit:")),
			cfg.SyncRate,
		)
		if err != nil {
			return err
		}

		opts := entitlementhttp.RouterOptions{
			Service:        a.service,
			Auth:           auth,
			SyncLimiter:    syncLimiter,
			RequestTimeout: a.cfg.RequestTimeout,
			Logger:         a.log,
		}
		if a.billing.WebhookSecret != "" {
			verifier, err := billing.NewWebhookVerifier(a.billing.WebhookSecret, a.billing.WebhookTolerance)
			if err != nil {
				return err
			}
			opts.Webhooks = verifier
		} else {
			a.log.WarnContext(ctx, "STRIPE_WEBHOOK_SECRET not set, webhook endpoint disabled")
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		r.Get("/livez", httpserver.Liveness())
		r.Get("/readyz", httpserver.Readiness(a.log, 3*time.Second, map[string]httpserver.Check{
			"postgres": pg.Healthcheck(a.pool),
			"redis":    redis.Healthcheck(redisClient),
		}))
		r.Handle("/metrics", promhttp.Handler())
		r.Mount("/entitlement", entitlementhttp.Router(opts))

		a.log.InfoContext(ctx, "starting entitlements",
			logger.Component("main"),
		)
		return httpserver.New(cfg.HTTP, httpserver.WithLogger(a.log)).Run(ctx, r)
	},
}
