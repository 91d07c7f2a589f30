package qrcode

import "errors"

var (
	ErrEmptyContent     = errors.New("qrcode: content cannot be empty")
	ErrInvalidSize      = errors.New("qrcode: size out of range")
	ErrFailedToGenerate = errors.New("qrcode: failed to generate image")
)
