package auth

import (
	"context"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

// Logout revokes refresh tokens. RevokeOne drops a single row; RevokeAllForUser
// invalidates every outstanding session for the user, not just the current
// device. Both are idempotent: absence is not an error. Outstanding access
// tokens remain valid until their short TTL runs out.
type Logout struct {
	tokens ports.TokenStore
}

func NewLogout(tokens ports.TokenStore) *Logout {
	return &Logout{tokens: tokens}
}

func (uc *Logout) RevokeOne(ctx context.Context, token string) error {
	_, err := uc.tokens.Delete(ctx, token)
	return err
}

func (uc *Logout) RevokeAllForUser(ctx context.Context, userID domain.UserID) error {
	return uc.tokens.DeleteAllForUser(ctx, userID)
}
