package twofactor

import "time"

// Config holds the tunables of the two-factor service, read from TWOFACTOR_* variables.
type Config struct {
	TokenTTL          time.Duration `env:"TWOFACTOR_TOKEN_TTL" envDefault:"10m"`
	GateTTL           time.Duration `env:"TWOFACTOR_GATE_TTL" envDefault:"24h"`
	TOTPSkew          int           `env:"TWOFACTOR_TOTP_SKEW" envDefault:"1"`
	BcryptCost        int           `env:"TWOFACTOR_BCRYPT_COST" envDefault:"10"`
	Issuer            string        `env:"TWOFACTOR_ISSUER" envDefault:"TwoFactor"`
	Required          bool          `env:"TWOFACTOR_REQUIRED" envDefault:"false"`
	RequiredResources []string      `env:"TWOFACTOR_REQUIRED_RESOURCES" envSeparator:","`
	ReplayProtection  bool          `env:"TWOFACTOR_TOTP_REPLAY_PROTECTION" envDefault:"false"`
	ReplayCacheSize   int           `env:"TWOFACTOR_TOTP_REPLAY_CACHE_SIZE" envDefault:"10000"`
}

// DefaultConfig mirrors the envDefault values.
func DefaultConfig() Config {
	return Config{
		TokenTTL:        10 * time.Minute,
		GateTTL:         24 * time.Hour,
		TOTPSkew:        1,
		BcryptCost:      10,
		Issuer:          "TwoFactor",
		ReplayCacheSize: 10000,
	}
}
