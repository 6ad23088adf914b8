package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity actions recorded on project, task, and comment mutations.
const (
	ActionProjectCreated  = "PROJECT_CREATED"
	ActionProjectUpdated  = "PROJECT_UPDATED"
	ActionProjectArchived = "PROJECT_ARCHIVED"
	ActionTaskCreated     = "TASK_CREATED"
	ActionTaskUpdated     = "TASK_UPDATED"
	ActionTaskCompleted   = "TASK_COMPLETED"
	ActionTaskDeleted     = "TASK_DELETED"
	ActionCommentAdded    = "COMMENT_ADDED"
	ActionMemberAdded     = "MEMBER_ADDED"
	ActionMemberRemoved   = "MEMBER_REMOVED"
	ActionRoleChanged     = "ROLE_CHANGED"
)

// ActivityEntry is an append-only audit record. Metadata is free-form and stored
// as JSON; the server never interprets it.
type ActivityEntry struct {
	ID        uuid.UUID
	ProjectID ProjectID
	UserID    UserID
	Action    string
	Metadata  map[string]string
	CreatedAt time.Time
}
