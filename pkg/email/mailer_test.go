package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/pkg/email"
	"github.com/dmitrymomot/twofactor/pkg/email/templates"
)

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Your code",
		BodyHTML: "<p>123456</p>",
		Tag:      "2fa-code",
	}
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *email.SendEmailParams)
		wantMsg string
	}{
		{name: "valid", mutate: func(*email.SendEmailParams) {}},
		{name: "missing recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "  " }, wantMsg: "SendTo is required"},
		{name: "invalid recipient", mutate: func(p *email.SendEmailParams) { p.SendTo = "not-an-email" }, wantMsg: "SendTo must be a valid email address"},
		{name: "missing subject", mutate: func(p *email.SendEmailParams) { p.Subject = "\t" }, wantMsg: "Subject is required"},
		{name: "missing body", mutate: func(p *email.SendEmailParams) { p.BodyHTML = "" }, wantMsg: "BodyHTML is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("dev provider", func(t *testing.T) {
		t.Parallel()
		sender, err := email.New(email.Config{Provider: email.ProviderDev, DevDir: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, sender)
	})

	t.Run("postmark without tokens", func(t *testing.T) {
		t.Parallel()
		_, err := email.New(email.Config{Provider: email.ProviderPostmark})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})

	t.Run("postmark with tokens", func(t *testing.T) {
		t.Parallel()
		sender, err := email.New(email.Config{
			Provider:             email.ProviderPostmark,
			PostmarkServerToken:  "server",
			PostmarkAccountToken: "account",
			SenderEmail:          "no-reply@example.com",
			SupportEmail:         "support@example.com",
		})
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		_, err := email.New(email.Config{Provider: "carrier-pigeon"})
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestPostmarkClient_SendEmail_ValidationError(t *testing.T) {
	t.Parallel()

	sender, err := email.NewPostmarkClient(email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "no-reply@example.com",
		SupportEmail:         "support@example.com",
	})
	require.NoError(t, err)

	// Validation fails before any request is made.
	err = sender.SendEmail(context.Background(), email.SendEmailParams{SendTo: "user@example.com"})
	assert.ErrorIs(t, err, email.ErrInvalidParams)
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("writes body and envelope", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "mail")
		sender := email.NewDevSender(dir)

		require.NoError(t, sender.SendEmail(context.Background(), validParams()))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlFile, jsonFile string
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".html":
				htmlFile = e.Name()
			case ".json":
				jsonFile = e.Name()
			}
		}
		require.NotEmpty(t, htmlFile)
		require.NotEmpty(t, jsonFile)
		assert.Contains(t, htmlFile, "2fa-code")

		body, err := os.ReadFile(filepath.Join(dir, htmlFile))
		require.NoError(t, err)
		assert.Equal(t, "<p>123456</p>", string(body))

		raw, err := os.ReadFile(filepath.Join(dir, jsonFile))
		require.NoError(t, err)
		var env map[string]string
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, "user@example.com", env["send_to"])
		assert.Equal(t, "Your code", env["subject"])
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		err := email.NewDevSender(dir).SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := email.NewDevSender(t.TempDir()).SendEmail(ctx, validParams())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("subject used when tag is empty", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		p := validParams()
		p.Tag = ""
		p.Subject = "Login Code / Acme!"
		require.NoError(t, email.NewDevSender(dir).SendEmail(context.Background(), p))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.True(t, strings.Contains(entries[0].Name(), "login_code__acme"), entries[0].Name())
	})
}

func TestVerificationCodeTemplate(t *testing.T) {
	t.Parallel()

	body, err := templates.Render(context.Background(), templates.VerificationCode(templates.CodeData{
		Issuer:    "Acme <Corp>",
		Code:      "042137",
		ExpiresIn: 10 * time.Minute,
	}))
	require.NoError(t, err)

	assert.Contains(t, body, "042137")
	assert.Contains(t, body, "10 minutes")
	assert.Contains(t, body, "Acme &lt;Corp&gt;")
	assert.NotContains(t, body, "<Corp>")
}
