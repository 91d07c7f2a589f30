// Package twofactor implements second-factor authentication: short-lived push
// codes delivered by email or SMS, TOTP authenticator apps (RFC 6238) and a
// session gate remembering who already passed the check for which resource.
//
// Push codes are six random digits. Only their bcrypt hash is stored, each new
// code invalidates the principal's previous unused ones, and a code is spent
// by the first successful verification. Wrong guesses do not burn it; rate
// limiting belongs to the caller.
//
// TOTP verification accepts one 30 second step either side of now. Codes stay
// replayable inside that window unless a ReplayGuard is configured.
//
// Verification never tells "no code was issued" from "wrong code": both return
// false. An error is returned only when a store fails, wrapped with ErrStore.
//
// Usage:
//
//	gate := twofactor.NewSessionGate(redis.NewGateStore(rdb, "twofactor:"))
//	svc := twofactor.NewService(
//		pgstore.NewTokenStore(pool),
//		pgstore.NewSecretStore(pool, cipher),
//		gate,
//		twofactor.WithConfig(cfg),
//		twofactor.WithNotifier(notify.NewEmailNotifier(sender, cfg.Issuer)),
//		twofactor.WithLogger(log),
//	)
//
//	expiresAt, err := svc.SendToken(ctx, userID, twofactor.MethodEmail, email)
//	...
//	ok, err := svc.VerifyToken(ctx, userID, submitted)
//	if ok {
//		_ = svc.MarkPassed(ctx, sessionID, "billing")
//	}
//
// Storage is pluggable through TokenStore, SecretStore and GateStore. Memory
// implementations ship here; PostgreSQL and Redis ones live in pkg/pgstore and
// pkg/redis.
package twofactor
