package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	insertTokenSQL = `
INSERT INTO refresh_tokens (token, user_id, expires_at, created_at)
VALUES ($1, $2, $3, NOW())`

	selectTokenSQL = `
SELECT token, user_id, expires_at FROM refresh_tokens WHERE token = $1`

	deleteTokenSQL = `
DELETE FROM refresh_tokens WHERE token = $1`

	deleteTokensByUserSQL = `
DELETE FROM refresh_tokens WHERE user_id = $1`
)

// TokenStore persists refresh-token rows. Delete reports rows affected; the
// refresh rotation relies on that count to stay single-use under concurrency.
type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

func (s *TokenStore) Store(ctx context.Context, token string, userID domain.UserID, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, insertTokenSQL, token, userID.UUID, expiresAt)
	return err
}

func (s *TokenStore) Get(ctx context.Context, token string) (*ports.RefreshTokenRecord, error) {
	var rec ports.RefreshTokenRecord
	err := s.pool.QueryRow(ctx, selectTokenSQL, token).
		Scan(&rec.Token, &rec.UserID.UUID, &rec.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) (int64, error) {
	tag, err := s.pool.Exec(ctx, deleteTokenSQL, token)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *TokenStore) DeleteAllForUser(ctx context.Context, userID domain.UserID) error {
	_, err := s.pool.Exec(ctx, deleteTokensByUserSQL, userID.UUID)
	return err
}

var _ ports.TokenStore = (*TokenStore)(nil)
