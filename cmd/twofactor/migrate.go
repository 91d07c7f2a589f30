package main

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/twofactor/pkg/pg"
	"github.com/dmitrymomot/twofactor/pkg/pgstore"
)

func runMigrate(ctx context.Context, args []string) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	a, err := connect(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	switch action {
	case "up":
		return pg.Migrate(ctx, a.pool, pgstore.Migrations, pgstore.MigrationsDir, a.pgCfg, a.log)
	case "status":
		return pg.MigrationStatus(ctx, a.pool, pgstore.Migrations, pgstore.MigrationsDir, a.pgCfg, a.log)
	case "down":
		return pg.Rollback(ctx, a.pool, pgstore.Migrations, pgstore.MigrationsDir, a.pgCfg, a.log)
	default:
		return fmt.Errorf("unknown migrate action %q (want up, status or down)", action)
	}
}
