// Package pgstore implements the two-factor storage interfaces on PostgreSQL
// through pgx/v5.
//
// TokenStore serializes issuance per principal with a transaction-scoped
// advisory lock and spends tokens with a conditional UPDATE, so a code is
// accepted at most once even under concurrent verification. A partial unique
// index backs the one-unused-token-per-principal rule.
//
// SecretStore optionally seals secrets with a SecretCipher (see totp.Cipher).
// AuditStorage persists audit.Event rows.
//
// The schema ships as goose migrations in Migrations:
//
//	err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log)
package pgstore
