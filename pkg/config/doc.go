// Package config loads typed configuration structs from environment variables.
//
// Struct fields are mapped with github.com/caarlos0/env tags and a local .env
// file is read through github.com/joho/godotenv before the first parse. Every
// struct type is parsed at most once per process; subsequent Load calls return
// the cached value so packages can ask for their settings wherever they are
// constructed without re-reading the environment.
//
//	type Config struct {
//		TokenTTL time.Duration `env:"TWOFACTOR_TOKEN_TTL" envDefault:"10m"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
