// Package pg bootstraps PostgreSQL access over pgx/v5: a retrying pool
// constructor, a ping-based health check, goose migrations read from an fs.FS
// and helpers classifying driver errors.
//
// Usage:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//
// Configuration comes from PG_* environment variables; see the tags on Config.
// Migrations share goose's global state, so concurrent calls are serialized.
package pg
