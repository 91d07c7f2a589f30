package totp_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/pquerna/otp"
	pquernatotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/pkg/totp"
)

// rfcSecret is the ASCII key "12345678901234567890" used by RFC 4226 and RFC 6238.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerateHOTP_RFC4226Vectors(t *testing.T) {
	t.Parallel()

	key := []byte("12345678901234567890")
	want := []int{755224, 287082, 359152, 969429, 338314, 254676, 287922, 162583, 399871, 520489}

	for counter, code := range want {
		assert.Equal(t, code, totp.GenerateHOTP(key, int64(counter), 6), "counter %d", counter)
	}
}

func TestTOTP_RFC6238Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, tt := range tests {
		got, err := totp.TOTP(rfcSecret, time.Unix(tt.unix, 0), 0)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "unix %d", tt.unix)
	}
}

func TestTOTP_GoldenVector(t *testing.T) {
	t.Parallel()

	at := time.Unix(1700000000, 0)

	tests := []struct {
		drift int64
		want  string
	}{
		{-2, "968785"},
		{-1, "822542"},
		{0, "324550"},
		{1, "367665"},
		{2, "870960"},
	}

	for _, tt := range tests {
		got, err := totp.TOTP("JBSWY3DPEHPK3PXP", at, tt.drift)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "drift %d", tt.drift)

		again, err := totp.TOTP("JBSWY3DPEHPK3PXP", at, tt.drift)
		require.NoError(t, err)
		assert.Equal(t, got, again, "deterministic output for drift %d", tt.drift)
	}
}

func TestTOTP_PreservesLeadingZeros(t *testing.T) {
	t.Parallel()

	got, err := totp.TOTP(rfcSecret, time.Unix(1234567890, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, "005924", got)
	assert.Len(t, got, 6)
}

func TestTOTP_InvalidSecret(t *testing.T) {
	t.Parallel()

	_, err := totp.TOTP("", time.Now(), 0)
	assert.ErrorIs(t, err, totp.ErrMissingSecret)

	_, err = totp.TOTP("invalid-base32!@#$", time.Now(), 0)
	assert.ErrorIs(t, err, totp.ErrInvalidSecret)
	assert.ErrorIs(t, err, totp.ErrInvalidBase32)
}

func TestTOTP_InteroperatesWithPquerna(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecret(nil)
	require.NoError(t, err)

	for _, unix := range []int64{0, 59, 1700000000, 1893456000} {
		at := time.Unix(unix, 0).UTC()
		want, err := pquernatotp.GenerateCodeCustom(secret, at, pquernatotp.ValidateOpts{
			Period:    30,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		require.NoError(t, err)

		got, err := totp.TOTP(secret, at, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got, "unix %d", unix)
	}
}

func TestValidateTOTP(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	secret := "JBSWY3DPEHPK3PXP"

	tests := []struct {
		name    string
		code    string
		want    bool
		counter int64
		wantErr error
	}{
		{name: "previous step", code: "822542", want: true, counter: totp.Counter(now, -1)},
		{name: "current step", code: "324550", want: true, counter: totp.Counter(now, 0)},
		{name: "next step", code: "367665", want: true, counter: totp.Counter(now, 1)},
		{name: "two steps back", code: "968785", want: false},
		{name: "two steps ahead", code: "870960", want: false},
		{name: "surrounding whitespace", code: " 324550 ", want: true, counter: totp.Counter(now, 0)},
		{name: "too short", code: "32455", wantErr: totp.ErrInvalidOTP},
		{name: "letters", code: "32455a", wantErr: totp.ErrInvalidOTP},
		{name: "empty", code: "", wantErr: totp.ErrInvalidOTP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, counter, err := totp.ValidateTOTP(secret, tt.code, now, totp.DefaultSkew)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				assert.Equal(t, tt.counter, counter)
			}
		})
	}
}

func TestValidateTOTP_ZeroSkew(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	ok, _, err := totp.ValidateTOTP("JBSWY3DPEHPK3PXP", "822542", now, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRandomCode(t *testing.T) {
	t.Parallel()

	for range 200 {
		code, err := totp.RandomCode(nil)
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}

func TestRandomCode_LeadingZeros(t *testing.T) {
	t.Parallel()

	// An all-zero source draws 0, which must still render as six digits.
	code, err := totp.RandomCode(bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
}

func TestRandomCode_ReaderFailure(t *testing.T) {
	t.Parallel()

	_, err := totp.RandomCode(bytes.NewReader(nil))
	assert.ErrorIs(t, err, totp.ErrFailedToGenerateCode)
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecret(nil)
	require.NoError(t, err)
	assert.Len(t, secret, totp.SecretLength)
	assert.Regexp(t, totp.ValidateSecretKeyRegex, secret)
}

func TestGenerateSecret_UsesEveryByte(t *testing.T) {
	t.Parallel()

	src := make([]byte, totp.SecretLength)
	for i := range src {
		src[i] = byte(i * 33) // low 5 bits walk 0,1,2,...
	}
	secret, err := totp.GenerateSecret(bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFGHIJKLMNOP", secret)
}

func TestGenerateSecret_ShortReader(t *testing.T) {
	t.Parallel()

	_, err := totp.GenerateSecret(bytes.NewReader([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, totp.ErrFailedToGenerateSecretKey)
}

func TestGetTOTPURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		params  totp.TOTPParams
		want    string
		wantErr error
	}{
		{
			name: "Basic URI",
			params: totp.TOTPParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "test@example.com",
				Issuer:      "TestApp",
			},
			want: "otpauth://totp/TestApp:test@example.com?algorithm=SHA1&digits=6&issuer=TestApp&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name: "URI with special characters",
			params: totp.TOTPParams{
				Secret:      "ABCDEFGHIJKLMNOP",
				AccountName: "test+user@example.com",
				Issuer:      "Test & App",
			},
			want: "otpauth://totp/Test%20&%20App:test+user@example.com?algorithm=SHA1&digits=6&issuer=Test+%26+App&period=30&secret=ABCDEFGHIJKLMNOP",
		},
		{
			name:    "Missing secret",
			params:  totp.TOTPParams{AccountName: "a", Issuer: "b"},
			wantErr: totp.ErrMissingSecret,
		},
		{
			name:    "Lowercase secret",
			params:  totp.TOTPParams{Secret: "abcdefgh", AccountName: "a", Issuer: "b"},
			wantErr: totp.ErrInvalidSecret,
		},
		{
			name:    "Missing account",
			params:  totp.TOTPParams{Secret: "ABCDEFGH", Issuer: "b"},
			wantErr: totp.ErrMissingAccountName,
		},
		{
			name:    "Missing issuer",
			params:  totp.TOTPParams{Secret: "ABCDEFGH", AccountName: "a"},
			wantErr: totp.ErrMissingIssuer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.GetTOTPURI(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
