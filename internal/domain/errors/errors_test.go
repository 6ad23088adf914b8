package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{ErrEmailTaken, ErrInvalidCredentials, ErrInvalidToken, ErrForbidden, ErrNotFound}
	for _, err := range sentinels {
		if err == nil {
			t.Fatal("sentinel should not be nil")
		}
	}
	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials)
	if !errors.Is(wrapped, ErrInvalidCredentials) {
		t.Error("wrapped sentinel should match with errors.Is")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("email", "malformed address")
	if got := err.Error(); got != "invalid email: malformed address" {
		t.Errorf("unexpected message: %q", got)
	}
	var ve *ValidationError
	if !errors.As(error(err), &ve) {
		t.Error("errors.As should match *ValidationError")
	}
}
