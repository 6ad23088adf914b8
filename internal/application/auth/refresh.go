package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

type RefreshInput struct {
	RefreshToken string
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// Refresh rotates a refresh token: the presented token is consumed and a brand
// new pair is issued. A refresh token is strictly single-use; presenting an
// already-rotated token fails because its row is gone.
type Refresh struct {
	users ports.UserRepository
	pairIssuer
}

func NewRefresh(users ports.UserRepository, codec ports.TokenCodec, tokens ports.TokenStore, refreshTTL time.Duration) *Refresh {
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenExpiry
	}
	return &Refresh{
		users:      users,
		pairIssuer: pairIssuer{codec: codec, tokens: tokens, refreshTTL: refreshTTL},
	}
}

func (uc *Refresh) Execute(ctx context.Context, input RefreshInput) (*RefreshResult, error) {
	if input.RefreshToken == "" {
		return nil, domerrors.ErrInvalidToken
	}
	subject, err := uc.codec.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domerrors.ErrInvalidToken
	}
	record, err := uc.tokens.Get(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// Rotated, revoked, or never issued.
		return nil, domerrors.ErrInvalidToken
	}
	if time.Now().After(record.ExpiresAt) {
		// Expired tokens are not silently extended; drop the row on presentation.
		_, _ = uc.tokens.Delete(ctx, input.RefreshToken)
		return nil, domerrors.ErrInvalidToken
	}
	// The conditional delete is the rotation lock: of two concurrent calls with
	// the same token, exactly one deletes the row. The loser sees zero rows and
	// must fail, otherwise a stolen token could be replayed indefinitely.
	n, err := uc.tokens.Delete(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domerrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(subject)
	if err != nil || record.UserID.UUID != userID {
		return nil, domerrors.ErrInvalidToken
	}
	user, err := uc.users.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domerrors.ErrInvalidToken
	}
	pair, err := uc.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
	}, nil
}
