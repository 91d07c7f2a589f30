package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultDigits    = 6      // Standard 6-digit codes
	DefaultPeriod    = 30     // 30-second time step (RFC 6238 standard)
	DefaultAlgorithm = "SHA1" // HMAC-SHA1 (RFC 6238 standard)
	DefaultSkew      = 1      // Time steps accepted on each side of the current one
	SecretLength     = 16     // 16 base32 symbols = 80 bits
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+$")

	codeRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, DefaultDigits))

	codeSpace = big.NewInt(int64(math.Pow10(DefaultDigits)))
)

// TOTPParams contains the parameters for TOTP URI generation
type TOTPParams struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
	Algorithm   string // HMAC algorithm (optional, defaults to SHA1)
	Digits      int    // Number of digits in generated codes (optional, defaults to 6)
	Period      int    // Code validity period in seconds (optional, defaults to 30)
}

// Validate ensures all required TOTP parameters are present and valid
func (p TOTPParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}

// GetDefaults returns a copy with RFC 6238 standard defaults applied to zero-valued fields
func (p TOTPParams) GetDefaults() TOTPParams {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// RandomCode returns a uniformly random 6-digit code for email and SMS delivery.
// No HMAC is involved. A nil reader falls back to crypto/rand.
func RandomCode(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, codeSpace)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateCode, err)
	}
	return fmt.Sprintf("%0*d", DefaultDigits, n.Int64()), nil
}

// GenerateSecret creates a 16-character base32 secret.
// Every symbol is drawn directly from the alphabet: 256 is a multiple of 32,
// so masking a random byte to 5 bits keeps the distribution uniform.
func GenerateSecret(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, SecretLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	for i, b := range buf {
		buf[i] = Alphabet[b&0x1F]
	}
	return string(buf), nil
}

// GetTOTPURI creates a properly encoded TOTP URI for use with authenticator apps.
// The URI format follows the Key Uri Format specification:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func GetTOTPURI(params TOTPParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	params = params.GetDefaults()

	label := fmt.Sprintf("%s:%s",
		url.PathEscape(params.Issuer),
		url.PathEscape(params.AccountName),
	)

	query := url.Values{}
	query.Set("secret", params.Secret)
	query.Set("issuer", params.Issuer)
	query.Set("algorithm", params.Algorithm)
	query.Set("digits", fmt.Sprintf("%d", params.Digits))
	query.Set("period", fmt.Sprintf("%d", params.Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// Counter returns the RFC 6238 time-step counter for t shifted by drift steps.
func Counter(t time.Time, drift int64) int64 {
	return t.Unix()/DefaultPeriod + drift
}

// TOTP computes the code for the time step containing t, shifted by drift steps.
func TOTP(secret string, t time.Time, drift int64) (string, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	return formatCode(GenerateHOTP(key, Counter(t, drift), DefaultDigits)), nil
}

// ValidateTOTP checks code against every time step in [-skew, +skew] around t.
// It returns the matched counter so callers can reject replays.
// Each candidate is compared in constant time.
func ValidateTOTP(secret, code string, t time.Time, skew int) (bool, int64, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return false, 0, errors.Join(ErrFailedToValidateTOTP, err)
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false, 0, ErrInvalidOTP
	}

	for drift := -int64(skew); drift <= int64(skew); drift++ {
		counter := Counter(t, drift)
		expected := formatCode(GenerateHOTP(key, counter, DefaultDigits))
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true, counter, nil
		}
	}

	return false, 0, nil
}

// GenerateHOTP implements RFC 4226 HMAC-based One-Time Password algorithm.
// The algorithm converts a counter value into a numeric code using HMAC-SHA1.
func GenerateHOTP(key []byte, counter int64, digits int) int {
	msg := make([]byte, 8)
	binary.BigEndian.PutUint64(msg, uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(msg)
	hash := mac.Sum(nil)

	// Dynamic truncation (RFC 4226 §5.3): low nibble of the last byte picks the window
	offset := hash[len(hash)-1] & 0x0f
	code := (int(hash[offset]&0x7f) << 24) |
		(int(hash[offset+1]) << 16) |
		(int(hash[offset+2]) << 8) |
		int(hash[offset+3])

	return code % int(math.Pow10(digits))
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	key, err := Decode(secret)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	if len(key) == 0 {
		return nil, ErrInvalidSecret
	}
	return key, nil
}

func formatCode(code int) string {
	return fmt.Sprintf("%0*d", DefaultDigits, code)
}
