package user

import (
	"context"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

type UpdateInput struct {
	FullName *string
	Email    *string
	Bio      *string
	Phone    *string
}

// Service covers the authenticated user's own account: profile reads, profile
// updates, and password changes.
type Service struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenStore
}

func NewService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenStore) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

func (s *Service) Me(ctx context.Context, id domain.UserID) (*domain.User, *domain.Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domerrors.ErrNotFound
	}
	profile, err := s.users.GetProfile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// Update applies profile changes. The user row and its profile sub-record are
// written in one transaction so they never drift apart.
func (s *Service) Update(ctx context.Context, id domain.UserID, input UpdateInput) (*domain.User, *domain.Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domerrors.ErrNotFound
	}
	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil && existing.ID.UUID != id.UUID {
			return nil, nil, domerrors.ErrEmailTaken
		}
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	profile, err := s.users.GetProfile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if profile == nil {
		profile = &domain.Profile{UserID: id}
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if err := s.users.UpdateWithProfile(ctx, user, profile); err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// ChangePassword requires proof of the current password, then rehashes and
// revokes every outstanding refresh token for the user.
func (s *Service) ChangePassword(ctx context.Context, id domain.UserID, current, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domerrors.ErrNotFound
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return domerrors.ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	return s.tokens.DeleteAllForUser(ctx, id)
}
