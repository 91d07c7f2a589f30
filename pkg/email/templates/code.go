package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// CodeData is what the verification code message shows.
type CodeData struct {
	Issuer    string
	Code      string
	ExpiresIn time.Duration
}

// VerificationCode renders the message carrying a one-time code.
// Every dynamic value is HTML-escaped.
func VerificationCode(d CodeData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		minutes := max(int(d.ExpiresIn.Round(time.Minute)/time.Minute), 1)
		_, err := fmt.Fprintf(w, `<!doctype html>
<html><body style="font-family:sans-serif">
<p>Your %s verification code is:</p>
<p style="font-size:28px;font-weight:bold;letter-spacing:4px">%s</p>
<p>It expires in %d minutes. If you did not request it, ignore this email.</p>
</body></html>`,
			templ.EscapeString(d.Issuer),
			templ.EscapeString(d.Code),
			minutes,
		)
		return err
	})
}
