package email

// Provider names accepted by Config.Provider.
const (
	ProviderPostmark = "postmark"
	ProviderDev      = "dev"
)

// Config holds email service configuration.
// Postmark tokens are only needed when Provider is "postmark"; the dev
// provider writes messages to DevDir instead of sending them.
type Config struct {
	Provider             string `env:"EMAIL_PROVIDER" envDefault:"dev"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"no-reply@localhost.dev"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@localhost.dev"`
	DevDir               string `env:"EMAIL_DEV_DIR" envDefault:".mail"`
}
