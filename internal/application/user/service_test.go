package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/application/apptest"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

func newUserFixture(t *testing.T) (*Service, *apptest.Users, *apptest.Tokens, domain.UserID) {
	t.Helper()
	users := apptest.NewUsers()
	tokens := apptest.NewTokens()
	svc := NewService(users, apptest.Hasher{}, tokens)

	id := domain.NewUserID(uuid.New())
	require.NoError(t, users.Create(context.Background(), &domain.User{
		ID:           id,
		Email:        "alice@example.com",
		FullName:     "Alice",
		PasswordHash: "hashed:old-pw",
	}))
	return svc, users, tokens, id
}

func TestMe(t *testing.T) {
	svc, _, _, id := newUserFixture(t)

	user, profile, err := svc.Me(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Nil(t, profile) // no profile row yet

	_, _, err = svc.Me(context.Background(), domain.NewUserID(uuid.New()))
	assert.ErrorIs(t, err, domerrors.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, users, _, id := newUserFixture(t)
	ctx := context.Background()

	name := "Alice B."
	bio := "Gopher"
	user, profile, err := svc.Update(ctx, id, UpdateInput{FullName: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", user.FullName)
	assert.Equal(t, "Gopher", profile.Bio)

	stored, err := users.GetProfile(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Gopher", stored.Bio)
}

func TestUpdateEmailUniqueness(t *testing.T) {
	svc, users, _, id := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &domain.User{
		ID:    domain.NewUserID(uuid.New()),
		Email: "bob@example.com",
	}))

	taken := "bob@example.com"
	_, _, err := svc.Update(ctx, id, UpdateInput{Email: &taken})
	assert.ErrorIs(t, err, domerrors.ErrEmailTaken)

	// Re-submitting one's own address is not a conflict.
	own := "alice@example.com"
	_, _, err = svc.Update(ctx, id, UpdateInput{Email: &own})
	assert.NoError(t, err)

	fresh := "alice.new@example.com"
	user, _, err := svc.Update(ctx, id, UpdateInput{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "alice.new@example.com", user.Email)
}

func TestChangePassword(t *testing.T) {
	svc, users, tokens, id := newUserFixture(t)
	ctx := context.Background()

	require.NoError(t, tokens.Store(ctx, "session-a", id, time.Now().Add(time.Hour)))
	require.NoError(t, tokens.Store(ctx, "session-b", id, time.Now().Add(time.Hour)))

	err := svc.ChangePassword(ctx, id, "wrong-pw", "new-pw")
	assert.ErrorIs(t, err, domerrors.ErrInvalidCredentials)
	assert.Equal(t, 2, tokens.Count())

	require.NoError(t, svc.ChangePassword(ctx, id, "old-pw", "new-pw"))

	user, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hashed:new-pw", user.PasswordHash)

	// Every outstanding session is revoked.
	assert.Equal(t, 0, tokens.Count())
}
