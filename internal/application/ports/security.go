package ports

import "context"

// PasswordHasher hashes and verifies passwords (adaptive, salted).
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// AccessClaims is the identity carried by a verified access token.
type AccessClaims struct {
	UserID string
	Email  string
}

// TokenCodec signs and verifies the two token kinds with independent secrets.
// Access tokens are stateless; refresh tokens are additionally persisted via
// TokenStore and the stored row is the revocation point.
type TokenCodec interface {
	SignAccessToken(userID, email string) (string, error)
	VerifyAccessToken(token string) (*AccessClaims, error)
	SignRefreshToken(userID string) (string, error)
	VerifyRefreshToken(token string) (userID string, err error)
}

// LoginLockoutStore throttles repeated login failures per email.
type LoginLockoutStore interface {
	IsLocked(ctx context.Context, email string) (locked bool, retryAfterSeconds int)
	RecordFailure(ctx context.Context, email string)
	RecordSuccess(ctx context.Context, email string)
}
