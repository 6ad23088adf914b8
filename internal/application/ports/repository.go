package ports

import (
	"context"
	"time"

	"github.com/taskhive/taskhive/internal/domain"
)

// UserRepository defines persistence for users and their profile sub-record.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetProfile(ctx context.Context, id domain.UserID) (*domain.Profile, error)
	// UpdateWithProfile updates the user row and upserts the profile sub-record
	// in a single transaction.
	UpdateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error
	UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error
}

// TokenStore defines storage for refresh-token rows. The token value is the
// lookup key and is treated as a credential.
type TokenStore interface {
	Store(ctx context.Context, token string, userID domain.UserID, expiresAt time.Time) error
	// Get returns (nil, nil) when the token is absent (rotated, revoked, or never issued).
	Get(ctx context.Context, token string) (*RefreshTokenRecord, error)
	// Delete removes the row and reports how many rows were affected. The
	// rows-affected count is the single-use rotation guard: of two concurrent
	// deletes for the same token, exactly one observes 1.
	Delete(ctx context.Context, token string) (int64, error)
	DeleteAllForUser(ctx context.Context, userID domain.UserID) error
}

// RefreshTokenRecord is a persisted refresh-token row. ExpiresAt is the
// authoritative revocation point, independent of the signature's own expiry.
type RefreshTokenRecord struct {
	Token     string
	UserID    domain.UserID
	ExpiresAt time.Time
}

// MembershipRepository defines persistence for project memberships.
type MembershipRepository interface {
	Add(ctx context.Context, m *domain.Membership) error
	// Get returns (nil, nil) when the user is not a member of the project.
	Get(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Membership, error)
	ListByProject(ctx context.Context, projectID domain.ProjectID) ([]domain.Membership, error)
	ListProjectIDsForUser(ctx context.Context, userID domain.UserID) ([]domain.ProjectID, error)
	UpdateRole(ctx context.Context, projectID domain.ProjectID, userID domain.UserID, role domain.Role) error
	Remove(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	// Type is one of "", "all", "owned", "shared", "archived".
	Type string
	// Status filters on an exact status when set.
	Status domain.ProjectStatus
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	// Create inserts the project and the creator's owner membership atomically.
	Create(ctx context.Context, project *domain.Project, owner *domain.Membership) error
	GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	ListForUser(ctx context.Context, userID domain.UserID, filter ProjectFilter) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id domain.ProjectID) error
}

// TaskRepository defines persistence for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id domain.TaskID) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id domain.TaskID) error
	ListForProjects(ctx context.Context, projectIDs []domain.ProjectID) ([]domain.Task, error)
}

// CommentRepository defines persistence for task comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByTask returns comments in chronological (ascending) order.
	ListByTask(ctx context.Context, taskID domain.TaskID) ([]domain.Comment, error)
}

// ActivityRepository defines persistence for activity-log entries.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
	ListByProject(ctx context.Context, projectID domain.ProjectID, limit int) ([]domain.ActivityEntry, error)
	// ListRecentForUser returns entries from every project the user belongs to.
	ListRecentForUser(ctx context.Context, userID domain.UserID, limit int) ([]domain.ActivityEntry, error)
}
