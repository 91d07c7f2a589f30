package pgstore

import "errors"

var (
	ErrQueryFailed   = errors.New("pgstore: query failed")
	ErrEncryptSecret = errors.New("pgstore: failed to encrypt totp secret")
	ErrDecryptSecret = errors.New("pgstore: failed to decrypt totp secret")
)
