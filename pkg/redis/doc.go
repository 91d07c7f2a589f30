// Package redis connects to Redis through go-redis/v9 and provides the
// Redis-backed pieces of the two-factor service: a GateStore for the session
// gate, a ReplayGuard rejecting reused TOTP time steps across instances and a
// ratelimiter.Store sharing verification rate limits.
//
// Usage:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	gate := twofactor.NewSessionGate(redis.NewGateStore(client, cfg.KeyPrefix))
//	svc := twofactor.NewService(tokens, secrets, gate,
//		twofactor.WithReplayGuard(redis.NewReplayGuard(client, cfg.KeyPrefix, totp.DefaultSkew)),
//	)
//
// Healthcheck returns a probe suitable for readiness checks.
package redis
