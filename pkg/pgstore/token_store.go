package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/twofactor/pkg/pg"
	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

const (
	lockPrincipalSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

	invalidateUnusedSQL = `
UPDATE one_time_tokens
SET used_at = $2
WHERE principal_id = $1 AND used_at IS NULL`

	insertTokenSQL = `
INSERT INTO one_time_tokens (id, principal_id, token_hash, method, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	latestUsableSQL = `
SELECT id, principal_id, token_hash, method, expires_at, created_at, used_at
FROM one_time_tokens
WHERE principal_id = $1 AND used_at IS NULL AND expires_at > $2
ORDER BY created_at DESC
LIMIT 1`

	markUsedSQL = `
UPDATE one_time_tokens
SET used_at = $2
WHERE id = $1 AND used_at IS NULL`

	deleteExpiredSQL = `DELETE FROM one_time_tokens WHERE expires_at < $1`
)

// TokenStore keeps one-time tokens in the one_time_tokens table.
type TokenStore struct {
	db DBTX
}

var _ twofactor.AtomicTokenStore = (*TokenStore)(nil)

func NewTokenStore(db DBTX) *TokenStore {
	return &TokenStore{db: db}
}

// WithPrincipalLock runs fn in a transaction holding an advisory lock keyed by
// the principal, so concurrent issues for one principal run one after another.
func (s *TokenStore) WithPrincipalLock(ctx context.Context, principalID string, fn func(twofactor.TokenStore) error) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockPrincipalSQL, principalID); err != nil {
			return errors.Join(ErrQueryFailed, err)
		}
		return fn(&TokenStore{db: tx})
	})
}

func (s *TokenStore) InvalidateUnused(ctx context.Context, principalID string, now time.Time) error {
	if _, err := s.db.Exec(ctx, invalidateUnusedSQL, principalID, now); err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

func (s *TokenStore) Insert(ctx context.Context, principalID, tokenHash string, method twofactor.Method, expiresAt, now time.Time) (uuid.UUID, error) {
	id := uuid.New()
	if _, err := s.db.Exec(ctx, insertTokenSQL, id, principalID, tokenHash, string(method), expiresAt, now); err != nil {
		return uuid.Nil, errors.Join(ErrQueryFailed, err)
	}
	return id, nil
}

func (s *TokenStore) LatestUsable(ctx context.Context, principalID string, now time.Time) (*twofactor.OneTimeToken, error) {
	var (
		tok    twofactor.OneTimeToken
		method string
	)
	err := s.db.QueryRow(ctx, latestUsableSQL, principalID, now).Scan(
		&tok.ID, &tok.PrincipalID, &tok.TokenHash, &method, &tok.ExpiresAt, &tok.CreatedAt, &tok.UsedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, twofactor.ErrTokenNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	tok.Method = twofactor.Method(method)
	return &tok, nil
}

// MarkUsed spends the token only if it is still unused.
func (s *TokenStore) MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) error {
	tag, err := s.db.Exec(ctx, markUsedSQL, id, now)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return twofactor.ErrTokenAlreadyUsed
	}
	return nil
}

func (s *TokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredSQL, now)
	if err != nil {
		return 0, errors.Join(ErrQueryFailed, err)
	}
	return tag.RowsAffected(), nil
}
