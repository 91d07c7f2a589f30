// Package httpserver runs an http.Handler with graceful shutdown and provides
// liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log, 2*time.Second,
//		httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool)},
//	))
//	err := srv.Run(ctx, r)
//
// Run returns when ctx is cancelled or on SIGINT/SIGTERM. Listen failures are
// wrapped with ErrStart, shutdown failures with ErrShutdown.
package httpserver
