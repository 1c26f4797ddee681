package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/logger"
	"github.com/dmitrymomot/entitlements/pkg/pg"
	"github.com/dmitrymomot/entitlements/pkg/planquota"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
	"github.com/dmitrymomot/entitlements/svc/entitlement/pgstore"
)

// app holds the components shared by serve, sync and quota.
type app struct {
	cfg     appConfig
	log     *slog.Logger
	pool    *pgxpool.Pool
	billing billing.Config
	service *entitlement.Service
}

func newLogger(cfg appConfig) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "entitlements"),
		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
			if id := middleware.GetReqID(ctx); id != "" {
				return logger.RequestID(id), true
			}
			return slog.Attr{}, false
		}),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}

func loadResolver(path string) (*planquota.Resolver, error) {
	if path == "" {
		return planquota.DefaultResolver(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan tiers: %w", err)
	}
	defer f.Close()

	tiers, err := planquota.LoadTiers(f)
	if err != nil {
		return nil, err
	}
	return planquota.NewResolver(tiers)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, pgCfg, billingCfg, err := loadCore()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	resolver, err := loadResolver(cfg.PlanTiersFile)
	if err != nil {
		return nil, err
	}

	stripeClient, err := billing.NewStripeClient(billingCfg, billing.WithStripeLogger(log))
	if err != nil {
		return nil, err
	}
	catalog := billing.NewCatalogCache(
		billing.NewRateLimitedClient(stripeClient, billingCfg.RequestsPerSecond, billingCfg.Burst),
		billingCfg.CatalogSize,
		billingCfg.CatalogTTL,
	)

	pool, err := pg.Connect(ctx, pgCfg, log)
	if err != nil {
		return nil, err
	}

	store := pgstore.NewStore(pool)
	users := pgstore.NewUsers(pool, cfg.Tables.Users, cfg.Tables.UsersID, cfg.Tables.UsersEmail)
	listings := pgstore.NewListings(pool, cfg.Tables.Listings, cfg.Tables.ListingsOwner)

	opts := []entitlement.Option{
		entitlement.WithLogger(log),
		entitlement.WithTTL(cfg.TTL),
		entitlement.WithResolver(resolver),
		entitlement.WithCatalogInvalidator(catalog),
	}
	reconciler := entitlement.NewReconciler(store, catalog, users, opts...)
	cache := entitlement.NewCache(store, reconciler, opts...)
	gate := entitlement.NewGate(cache, catalog, listings, opts...)

	return &app{
		cfg:     cfg,
		log:     log,
		pool:    pool,
		billing: billingCfg,
		service: entitlement.NewService(cache, gate, store, opts...),
	}, nil
}

func (a *app) Close() {
	a.pool.Close()
}
