package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID domain.UserID
	Email  string
}

// WithIdentity injects the caller identity into the context.
func WithIdentity(ctx context.Context, userID uuid.UUID, email string) context.Context {
	return context.WithValue(ctx, identityContextKey, &Identity{
		UserID: domain.NewUserID(userID),
		Email:  email,
	})
}

// IdentityFromContext returns the caller identity, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	v := ctx.Value(identityContextKey)
	if v == nil {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
