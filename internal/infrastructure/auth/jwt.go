package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/application/ports"
)

// TokenCodec implements ports.TokenCodec with HS256. Access and refresh tokens
// are signed with independent secrets so a leaked access secret cannot mint
// refresh tokens, and carry a kind claim so one never verifies as the other.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Kind  string `json:"kind"`
}

type refreshClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

func NewTokenCodec(accessSecret, refreshSecret []byte, issuer string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *TokenCodec) SignAccessToken(userID, email string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		Email: email,
		Kind:  kindAccess,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.accessSecret)
}

func (c *TokenCodec) VerifyAccessToken(tokenString string) (*ports.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, c.keyFunc(c.accessSecret))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.Kind != kindAccess {
		return nil, errors.New("invalid token claims")
	}
	return &ports.AccessClaims{UserID: claims.Subject, Email: claims.Email}, nil
}

// SignRefreshToken embeds a random jti so two tokens minted for the same user
// in the same second are still distinct strings. The stored row is keyed by the
// full token value; without the jti a rotation inside the issuing second would
// re-mint the token it just consumed.
func (c *TokenCodec) SignRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
		Kind: kindRefresh,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.refreshSecret)
}

func (c *TokenCodec) VerifyRefreshToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &refreshClaims{}, c.keyFunc(c.refreshSecret))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*refreshClaims)
	if !ok || !token.Valid || claims.Kind != kindRefresh {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

func (c *TokenCodec) keyFunc(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}

var _ ports.TokenCodec = (*TokenCodec)(nil)
