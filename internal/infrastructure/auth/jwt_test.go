package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(accessTTL, refreshTTL time.Duration) *TokenCodec {
	return NewTokenCodec(
		[]byte("access-secret-for-tests"),
		[]byte("refresh-secret-for-tests"),
		"taskhive-test",
		accessTTL,
		refreshTTL,
	)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(time.Minute, time.Hour)

	token, err := codec.SignAccessToken("7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(time.Minute, time.Hour)

	token, err := codec.SignRefreshToken("7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	require.NoError(t, err)

	subject, err := codec.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "7b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", subject)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	codec := newTestCodec(-time.Minute, time.Hour)

	token, err := codec.SignAccessToken("user-id", "alice@example.com")
	require.NoError(t, err)

	_, err = codec.VerifyAccessToken(token)
	assert.Error(t, err)
}

func TestExpiredRefreshTokenRejected(t *testing.T) {
	codec := newTestCodec(time.Minute, -time.Minute)

	token, err := codec.SignRefreshToken("user-id")
	require.NoError(t, err)

	_, err = codec.VerifyRefreshToken(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	codec := newTestCodec(time.Minute, time.Hour)
	other := NewTokenCodec(
		[]byte("a-different-access-secret"),
		[]byte("a-different-refresh-secret"),
		"taskhive-test",
		time.Minute, time.Hour,
	)

	access, err := codec.SignAccessToken("user-id", "alice@example.com")
	require.NoError(t, err)
	_, err = other.VerifyAccessToken(access)
	assert.Error(t, err)

	refresh, err := codec.SignRefreshToken("user-id")
	require.NoError(t, err)
	_, err = other.VerifyRefreshToken(refresh)
	assert.Error(t, err)
}

// Refresh tokens double as row keys in the token store, so two mints for the
// same user inside the same second must still produce distinct strings.
func TestRefreshTokensMintedTogetherAreDistinct(t *testing.T) {
	codec := newTestCodec(time.Minute, time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		token, err := codec.SignRefreshToken("user-id")
		require.NoError(t, err)
		assert.False(t, seen[token], "token minted twice")
		seen[token] = true
	}
}

// An access token must never pass refresh verification, and vice versa. The
// secrets are independent and each token carries its kind, so neither the
// signature nor the claims can cross over.
func TestTokenKindsDoNotCrossVerify(t *testing.T) {
	codec := newTestCodec(time.Minute, time.Hour)

	access, err := codec.SignAccessToken("user-id", "alice@example.com")
	require.NoError(t, err)
	_, err = codec.VerifyRefreshToken(access)
	assert.Error(t, err)

	refresh, err := codec.SignRefreshToken("user-id")
	require.NoError(t, err)
	_, err = codec.VerifyAccessToken(refresh)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	codec := newTestCodec(time.Minute, time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := codec.VerifyAccessToken(tok)
		assert.Error(t, err, "token %q", tok)
		_, err = codec.VerifyRefreshToken(tok)
		assert.Error(t, err, "token %q", tok)
	}
}
