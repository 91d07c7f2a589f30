package totp

// Config holds settings for at-rest protection of TOTP secrets.
// The key is optional: without it secrets are stored as issued.
type Config struct {
	EncryptionKey string `env:"TOTP_ENCRYPTION_KEY"` // base64 encoded 32-byte AES key
}
