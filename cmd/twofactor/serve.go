package main

import (
	"context"
	"sync"

	"github.com/dmitrymomot/twofactor/pkg/config"
	"github.com/dmitrymomot/twofactor/pkg/httpapi"
	"github.com/dmitrymomot/twofactor/pkg/httpserver"
	"github.com/dmitrymomot/twofactor/pkg/ratelimiter"
	"github.com/dmitrymomot/twofactor/pkg/redis"
)

func runServe(ctx context.Context, _ []string) error {
	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	limiter, err := a.verifyLimiter()
	if err != nil {
		return err
	}

	router, err := httpapi.NewRouter(httpapi.Config{
		Service:        a.svc,
		APIToken:       a.cfg.APIToken,
		Logger:         a.log,
		Checks:         a.checks,
		RequestTimeout: httpCfg.WriteTimeout,
		VerifyLimiter:  limiter,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.cfg.CleanupInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runCleanupLoop(ctx, a.svc, a.log, a.cfg.CleanupInterval)
		}()
	}

	err = httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(a.log)).Run(ctx, router)
	cancel()
	wg.Wait()
	return err
}

// verifyLimiter keeps buckets in Redis when enabled, in memory otherwise.
func (a *app) verifyLimiter() (*ratelimiter.Bucket, error) {
	var cfg ratelimiter.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	var store ratelimiter.Store
	if a.rdb != nil {
		store = redis.NewRateLimitStore(a.rdb, a.prefix)
	} else {
		ms := ratelimiter.NewMemoryStore()
		a.onClose(ms.Close)
		store = ms
	}
	return ratelimiter.NewBucket(store, cfg)
}
