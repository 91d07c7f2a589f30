package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"time"

	"github.com/dmitrymomot/twofactor/pkg/logger"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

func runCleanup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ContinueOnError)
	interval := fs.Duration("interval", 0, "repeat every interval until stopped (0 runs once)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if *interval <= 0 {
		_, err := cleanupOnce(ctx, a.svc, a.log)
		return err
	}
	runCleanupLoop(ctx, a.svc, a.log, *interval)
	return nil
}

// runCleanupLoop purges expired tokens every interval until ctx is done.
// A failed pass is logged and retried on the next tick.
func runCleanupLoop(ctx context.Context, svc *twofactor.Service, log *slog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_, _ = cleanupOnce(ctx, svc, log)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func cleanupOnce(ctx context.Context, svc *twofactor.Service, log *slog.Logger) (int64, error) {
	start := time.Now()
	n, err := svc.Cleanup(ctx, start)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.ErrorContext(ctx, "token cleanup failed", logger.Error(err), logger.Component("cleanup"))
		}
		return 0, err
	}
	log.InfoContext(ctx, "expired tokens removed",
		logger.Count(n),
		logger.Duration(time.Since(start)),
		logger.Component("cleanup"),
	)
	return n, nil
}
