// Package pg connects to PostgreSQL through a pgx pool and applies goose
// migrations shipped inside the binary.
//
//	pool, err := pg.Connect(ctx, cfg, log)
//	if err != nil { ... }
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, "migrations", log); err != nil { ... }
//
// Error helpers classify pgx errors (no rows, unique violation) so storage
// packages can map them onto their own sentinels.
package pg
