package authz

import (
	"context"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
	domerrors "github.com/taskhive/taskhive/internal/domain/errors"
)

// Gate is the per-request authorization check. Each call site declares its own
// allowed-role set inline; there is no declarative policy layer. "Not a member"
// and "insufficient role" collapse into the same error so resource existence
// never leaks to non-members.
type Gate struct {
	members ports.MembershipRepository
}

func NewGate(members ports.MembershipRepository) *Gate {
	return &Gate{members: members}
}

// Require permits the caller when their membership role in the project is one
// of the allowed roles, and returns ErrForbidden otherwise.
func (g *Gate) Require(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID, allowed ...domain.Role) error {
	member, err := g.members.Get(ctx, projectID, callerID)
	if err != nil {
		return err
	}
	if member == nil || !member.Role.In(allowed...) {
		return domerrors.ErrForbidden
	}
	return nil
}

// RequireMember permits any membership role.
func (g *Gate) RequireMember(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) error {
	return g.Require(ctx, callerID, projectID, domain.RoleMember, domain.RoleAdmin, domain.RoleOwner)
}

// RequireTaskMutation layers the assignee rule on top of the role check: a
// member may only mutate a task assigned to them; admins and owners may mutate
// any task in the project.
func (g *Gate) RequireTaskMutation(ctx context.Context, callerID domain.UserID, task *domain.Task) error {
	member, err := g.members.Get(ctx, task.ProjectID, callerID)
	if err != nil {
		return err
	}
	if member == nil {
		return domerrors.ErrForbidden
	}
	if member.Role == domain.RoleMember {
		if task.AssigneeID == nil || task.AssigneeID.UUID != callerID.UUID {
			return domerrors.ErrForbidden
		}
	}
	return nil
}

// Membership returns the caller's membership row, or ErrForbidden when absent.
// Used where the role itself drives behavior after the check.
func (g *Gate) Membership(ctx context.Context, callerID domain.UserID, projectID domain.ProjectID) (*domain.Membership, error) {
	member, err := g.members.Get(ctx, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domerrors.ErrForbidden
	}
	return member, nil
}
