package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	insertUserSQL = `
INSERT INTO users (id, email, full_name, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	selectUserByEmailSQL = `
SELECT id, email, full_name, password_hash, created_at, updated_at
FROM users WHERE email = $1`

	selectUserByIDSQL = `
SELECT id, email, full_name, password_hash, created_at, updated_at
FROM users WHERE id = $1`

	selectProfileSQL = `
SELECT user_id, COALESCE(bio, ''), COALESCE(phone, ''), COALESCE(avatar_url, '')
FROM user_profiles WHERE user_id = $1`

	updateUserSQL = `
UPDATE users SET email = $2, full_name = $3, updated_at = NOW() WHERE id = $1`

	upsertProfileSQL = `
INSERT INTO user_profiles (user_id, bio, phone, avatar_url)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET bio = $2, phone = $3, avatar_url = $4`

	updatePasswordSQL = `
UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, insertUserSQL,
		user.ID.UUID, user.Email, user.FullName, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUserByEmailSQL, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUserByIDSQL, id.UUID))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID.UUID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetProfile(ctx context.Context, id domain.UserID) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, selectProfileSQL, id.UUID).
		Scan(&p.UserID.UUID, &p.Bio, &p.Phone, &p.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateWithProfile keeps the user row and its profile sub-record consistent
// under one transaction.
func (r *UserRepository) UpdateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, updateUserSQL, user.ID.UUID, user.Email, user.FullName); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, upsertProfileSQL, user.ID.UUID, profile.Bio, profile.Phone, profile.AvatarURL); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, updatePasswordSQL, id.UUID, passwordHash)
	return err
}

var _ ports.UserRepository = (*UserRepository)(nil)
