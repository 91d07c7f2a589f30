package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Welcome Email", want: "welcome_email"},
		{in: "code/../../etc", want: "code....etc"},
		{in: "!!!", want: "email"},
		{in: "", want: "email"},
		{in: strings.Repeat("a", 150), want: strings.Repeat("a", 100)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}
