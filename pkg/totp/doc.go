// Package totp implements the one-time password primitives behind two-factor
// authentication: an RFC 4648 base32 codec, RFC 4226 HOTP truncation, RFC 6238
// time-based codes, random push codes for email/SMS delivery and AES-256-GCM
// sealing of secrets at rest.
//
// The package has no state and no third-party dependencies. Everything that
// needs randomness accepts an io.Reader so tests can supply a deterministic
// source; a nil reader means crypto/rand.
//
// # Architecture
//
//   • base32.go – Encode/Decode over the A–Z2–7 alphabet. Decode is
//     case-insensitive, rejects foreign characters with *DecodeError and drops a
//     trailing partial byte instead of zero-padding it.
//
//   • otp.go – RandomCode for push tokens, GenerateSecret for 16-symbol TOTP
//     secrets, GenerateHOTP (dynamic truncation), TOTP/ValidateTOTP for the
//     time-step flow and GetTOTPURI for authenticator enrollment.
//
//   • cipher.go – Cipher seals and opens secrets before they are persisted. The
//     key comes from TOTP_ENCRYPTION_KEY (see Config).
//
// # Usage
//
//	secret, _ := totp.GenerateSecret(nil)
//
//	code, _ := totp.TOTP(secret, time.Now(), 0)
//
//	ok, counter, err := totp.ValidateTOTP(secret, code, time.Now(), totp.DefaultSkew)
//	if err != nil {
//	    // malformed secret or code
//	}
//	_ = counter // matched time step, useful for replay protection
//	_ = ok
//
// # Error Handling
//
// Errors are package level sentinels joined with the underlying cause via
// errors.Join. Use errors.Is with ErrInvalidBase32, ErrInvalidSecret,
// ErrInvalidOTP and friends; errors.As with *DecodeError exposes the offending
// character.
//
// # See Also
//
//   • RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   • RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
//   • RFC 4648 – The Base16, Base32, and Base64 Data Encodings
package totp
