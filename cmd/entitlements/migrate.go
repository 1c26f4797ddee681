package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/entitlements/pkg/pg"
	"github.com/dmitrymomot/entitlements/svc/entitlement/pgstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		app, err := loadConfig[appConfig]()
		if err != nil {
			return err
		}
		pgCfg, err := loadConfig[pg.Config]()
		if err != nil {
			return err
		}
		log := newLogger(app)

		pool, err := pg.Connect(ctx, pgCfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		version, err := pg.Migrate(ctx, pool, pgCfg, pgstore.Migrations, pgstore.MigrationsDir, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
		return nil
	},
}
