package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// User is an identity record. PasswordHash never leaves the persistence boundary
// in API responses.
type User struct {
	ID           UserID
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the optional per-user profile sub-record.
type Profile struct {
	UserID    UserID
	Bio       string
	Phone     string
	AvatarURL string
}
