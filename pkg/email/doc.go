// Package email sends transactional email through a provider-agnostic
// EmailSender. Postmark is used in production; DevSender writes messages to
// disk for local work. The templates subpackage renders message bodies with
// templ components.
//
//	sender, err := email.New(cfg)
//	if err != nil {
//		return err
//	}
//	body, err := templates.Render(ctx, templates.VerificationCode(templates.CodeData{
//		Issuer: "Acme", Code: code, ExpiresIn: 10 * time.Minute,
//	}))
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo: "user@example.com", Subject: "Your code", BodyHTML: body, Tag: "2fa-code",
//	})
package email
