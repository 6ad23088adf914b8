package auth

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// Login authenticates credentials and issues a token pair. Unknown email and
// wrong password return the same error so callers cannot enumerate accounts.
type Login struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	pairIssuer
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, tokens ports.TokenStore, refreshTTL time.Duration) *Login {
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenExpiry
	}
	return &Login{
		users:      users,
		hasher:     hasher,
		pairIssuer: pairIssuer{codec: codec, tokens: tokens, refreshTTL: refreshTTL},
	}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	pair, err := uc.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}
