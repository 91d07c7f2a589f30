package pgstore

import "embed"

// MigrationsDir is the directory inside Migrations holding the goose files.
const MigrationsDir = "migrations"

// Migrations holds the schema for tokens, secrets and audit events.
//
//go:embed migrations/*.sql
var Migrations embed.FS
