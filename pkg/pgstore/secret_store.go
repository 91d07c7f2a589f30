package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/twofactor/pkg/pg"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

const (
	upsertSecretSQL = `
INSERT INTO totp_secrets (principal_id, secret, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (principal_id) DO UPDATE
SET secret = EXCLUDED.secret, updated_at = EXCLUDED.updated_at`

	getSecretSQL    = `SELECT principal_id, secret, updated_at FROM totp_secrets WHERE principal_id = $1`
	deleteSecretSQL = `DELETE FROM totp_secrets WHERE principal_id = $1`
)

// SecretCipher seals secrets at rest. *totp.Cipher implements it.
type SecretCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(sealed string) (string, error)
}

// SecretStore keeps TOTP secrets in the totp_secrets table, one row per principal.
type SecretStore struct {
	db     DBTX
	cipher SecretCipher
}

var _ twofactor.SecretStore = (*SecretStore)(nil)

// NewSecretStore creates a store. With a nil cipher secrets are stored as is.
func NewSecretStore(db DBTX, cipher SecretCipher) *SecretStore {
	return &SecretStore{db: db, cipher: cipher}
}

func (s *SecretStore) Upsert(ctx context.Context, principalID, secret string, now time.Time) error {
	if s.cipher != nil {
		sealed, err := s.cipher.Encrypt(secret)
		if err != nil {
			return errors.Join(ErrEncryptSecret, err)
		}
		secret = sealed
	}
	if _, err := s.db.Exec(ctx, upsertSecretSQL, principalID, secret, now); err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

func (s *SecretStore) Get(ctx context.Context, principalID string) (*twofactor.TotpSecret, error) {
	var secret twofactor.TotpSecret
	err := s.db.QueryRow(ctx, getSecretSQL, principalID).Scan(&secret.PrincipalID, &secret.Secret, &secret.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, twofactor.ErrSecretNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	if s.cipher != nil {
		plain, err := s.cipher.Decrypt(secret.Secret)
		if err != nil {
			return nil, errors.Join(ErrDecryptSecret, err)
		}
		secret.Secret = plain
	}
	return &secret, nil
}

func (s *SecretStore) Delete(ctx context.Context, principalID string) error {
	if _, err := s.db.Exec(ctx, deleteSecretSQL, principalID); err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}
