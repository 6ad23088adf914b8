package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for handlers to map to HTTP status. All credential and token
// verification failures collapse into ErrInvalidCredentials or ErrInvalidToken
// so the caller cannot tell which check failed.
var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrAlreadyMember      = errors.New("user is already a member")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrForbidden          = errors.New("insufficient role")
	ErrNotFound           = errors.New("not found")
)

// ValidationError carries the offending field for malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
