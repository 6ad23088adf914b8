package auth

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

const (
	// DefaultAccessTokenExpiry is 15 minutes.
	DefaultAccessTokenExpiry = 15 * time.Minute
	// DefaultRefreshTokenExpiry is 7 days.
	DefaultRefreshTokenExpiry = 7 * 24 * time.Hour
)

// TokenPair is one access/refresh issuance.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// pairIssuer mints an access/refresh pair and persists the refresh-token row.
// The stored absolute expiry is computed here, independently of the refresh
// token's embedded expiry; both derive from the same TTL and must agree. The
// stored row is the authoritative revocation point. Shared by Login and Refresh.
type pairIssuer struct {
	codec      ports.TokenCodec
	tokens     ports.TokenStore
	refreshTTL time.Duration
}

func (p *pairIssuer) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := p.codec.SignAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := p.codec.SignRefreshToken(user.ID.String())
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(p.refreshTTL)
	if err := p.tokens.Store(ctx, refreshToken, user.ID, expiresAt); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
