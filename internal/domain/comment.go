package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommentID is a value object for comment identity.
type CommentID struct{ uuid.UUID }

// NewCommentID creates a new CommentID from uuid.
func NewCommentID(id uuid.UUID) CommentID { return CommentID{UUID: id} }

// String returns the canonical string form.
func (c CommentID) String() string { return c.UUID.String() }

// Comment is a note attached to a task by a project member.
type Comment struct {
	ID        CommentID
	TaskID    TaskID
	UserID    UserID
	Content   string
	CreatedAt time.Time
}
