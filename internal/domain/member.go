package domain

import "time"

// Role is a per-project capability level. It is scoped to a membership,
// not global to the user.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// ParseRole returns the Role for s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleMember, RoleAdmin, RoleOwner:
		return Role(s), true
	}
	return "", false
}

// In reports whether r is one of the allowed roles.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Membership binds a user to a project with exactly one role.
// Exactly one row exists per (project, user) pair.
type Membership struct {
	ProjectID ProjectID
	UserID    UserID
	Role      Role
	CreatedAt time.Time
}
