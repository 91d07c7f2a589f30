package totp

import (
	"fmt"
	"strings"
)

// Alphabet is the RFC 4648 base32 alphabet used for TOTP secrets.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// decodeMap maps an ASCII byte to its 5-bit value, 0xFF marks bytes outside the alphabet.
var decodeMap = func() [256]byte {
	var m [256]byte
	for i := range m {
		m[i] = 0xFF
	}
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = byte(i)
		m[strings.ToLower(Alphabet[i : i+1])[0]] = byte(i)
	}
	return m
}()

// DecodeError reports a character that is not part of the base32 alphabet.
type DecodeError struct {
	Char     rune
	Position int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid base32 character %q at position %d", e.Char, e.Position)
}

// Is makes errors.Is(err, ErrInvalidBase32) hold for every DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrInvalidBase32
}

// Encode renders data with the base32 alphabet and no padding.
// A trailing group shorter than 5 bits is left-aligned, as RFC 4648 does.
func Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var (
		sb     strings.Builder
		buffer uint32
		bits   uint
	)
	sb.Grow((len(data)*8 + 4) / 5)

	for _, b := range data {
		buffer = buffer<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			sb.WriteByte(Alphabet[(buffer>>bits)&0x1F])
		}
	}
	if bits > 0 {
		sb.WriteByte(Alphabet[(buffer<<(5-bits))&0x1F])
	}

	return sb.String()
}

// Decode converts a base32 string into bytes. Lookup is case-insensitive.
// Only completed bytes are emitted: bits left over after the last full byte are dropped.
// Padding and whitespace are not stripped; they fail like any other foreign character.
func Decode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)*5/8)

	var (
		buffer uint32
		bits   uint
	)
	for i, r := range s {
		if r > 0xFF || decodeMap[r] == 0xFF {
			return nil, &DecodeError{Char: r, Position: i}
		}
		buffer = buffer<<5 | uint32(decodeMap[r])
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buffer>>bits))
			buffer &= (1 << bits) - 1
		}
	}

	return out, nil
}
