package main

import (
	"time"

	"github.com/dmitrymomot/entitlements/pkg/billing"
	"github.com/dmitrymomot/entitlements/pkg/config"
	"github.com/dmitrymomot/entitlements/pkg/httpserver"
	"github.com/dmitrymomot/entitlements/pkg/jwtauth"
	"github.com/dmitrymomot/entitlements/pkg/pg"
	"github.com/dmitrymomot/entitlements/pkg/ratelimiter"
	"github.com/dmitrymomot/entitlements/pkg/redis"
	"github.com/dmitrymomot/entitlements/svc/entitlement"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	PlanTiersFile  string        `env:"PLAN_TIERS_FILE"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"10s"`

	Tables tableConfig
	TTL    entitlement.TTLPolicy
}

// tableConfig names the host application's tables read by the service.
type tableConfig struct {
	Users         string `env:"USERS_TABLE" envDefault:"users"`
	UsersID       string `env:"USERS_ID_COLUMN" envDefault:"id"`
	UsersEmail    string `env:"USERS_EMAIL_COLUMN" envDefault:"email"`
	Listings      string `env:"LISTINGS_TABLE" envDefault:"listings"`
	ListingsOwner string `env:"LISTINGS_OWNER_COLUMN" envDefault:"user_id"`
}

type serveConfig struct {
	HTTP     httpserver.Config
	Redis    redis.Config
	JWT      jwtauth.Config
	SyncRate ratelimiter.Config `envPrefix:"SYNC_RATE_"`
}

func loadConfig[T any]() (T, error) {
	return config.Load[T](config.WithEnvFiles(envFiles...))
}

func loadCore() (appConfig, pg.Config, billing.Config, error) {
	app, err := loadConfig[appConfig]()
	if err != nil {
		return app, pg.Config{}, billing.Config{}, err
	}
	pgCfg, err := loadConfig[pg.Config]()
	if err != nil {
		return app, pgCfg, billing.Config{}, err
	}
	billingCfg, err := loadConfig[billing.Config]()
	return app, pgCfg, billingCfg, err
}
