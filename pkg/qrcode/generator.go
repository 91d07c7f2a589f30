package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	MaxSize     = 2048

	dataURIPrefix = "data:image/png;base64,"
)

// Generate renders content as a PNG image of size x size pixels.
// A non-positive size selects DefaultSize. Medium error correction keeps
// otpauth URIs scannable from a laptop screen.
func Generate(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrInvalidSize, size, MaxSize)
	}

	png, err := skipqrcode.Encode(content, skipqrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerate, err)
	}
	return png, nil
}

// GenerateBase64Image returns the PNG as a data URI, ready for an <img src>.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// DecodeDataURI extracts the PNG bytes from a value produced by GenerateBase64Image.
func DecodeDataURI(uri string) ([]byte, error) {
	raw, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrFailedToGenerate, dataURIPrefix)
	}
	png, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerate, err)
	}
	return png, nil
}
