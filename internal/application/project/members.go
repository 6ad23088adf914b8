package project

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

// Members handles the membership relation: invitations, role changes, removal.
// The Authorization Gate never mutates memberships; this service owns them.
type Members struct {
	members *Service
	users   ports.UserRepository
}

func NewMembers(svc *Service, users ports.UserRepository) *Members {
	return &Members{members: svc, users: users}
}

func (m *Members) List(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) ([]domain.Membership, error) {
	if err := m.members.gate.RequireMember(ctx, callerID, projectID); err != nil {
		return nil, err
	}
	return m.members.members.ListByProject(ctx, projectID)
}

// Add invites a user by email. Owners and admins may invite; the invited user
// defaults to the member role. Multiple owners are allowed.
func (m *Members) Add(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, email string, role domain.Role) (*domain.Membership, error) {
	if err := m.members.gate.Require(ctx, callerID, projectID, domain.RoleAdmin, domain.RoleOwner); err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RoleMember
	}
	invited, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invited == nil {
		return nil, domerrors.ErrNotFound
	}
	existing, err := m.members.members.Get(ctx, projectID, invited.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domerrors.ErrAlreadyMember
	}
	membership := &domain.Membership{
		ProjectID: projectID,
		UserID:    invited.ID,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := m.members.members.Add(ctx, membership); err != nil {
		return nil, err
	}
	m.members.activity.Record(ctx, projectID, callerID, domain.ActionMemberAdded, map[string]string{"email": email, "role": string(role)})
	return membership, nil
}

// ChangeRole is owner-only.
func (m *Members) ChangeRole(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, targetID domain.UserID, role domain.Role) error {
	if err := m.members.gate.Require(ctx, callerID, projectID, domain.RoleOwner); err != nil {
		return err
	}
	target, err := m.members.members.Get(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return domerrors.ErrNotFound
	}
	if err := m.members.members.UpdateRole(ctx, projectID, targetID, role); err != nil {
		return err
	}
	m.members.activity.Record(ctx, projectID, callerID, domain.ActionRoleChanged, map[string]string{"user_id": targetID.String(), "role": string(role)})
	return nil
}

// Remove is owner-only.
func (m *Members) Remove(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, targetID domain.UserID) error {
	if err := m.members.gate.Require(ctx, callerID, projectID, domain.RoleOwner); err != nil {
		return err
	}
	if err := m.members.members.Remove(ctx, projectID, targetID); err != nil {
		return err
	}
	m.members.activity.Record(ctx, projectID, callerID, domain.ActionMemberRemoved, map[string]string{"user_id": targetID.String()})
	return nil
}
