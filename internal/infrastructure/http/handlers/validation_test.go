package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", SanitizeEmail("  Alice@Example.COM  "))
	assert.Equal(t, "", SanitizeEmail(strings.Repeat("a", MaxEmailLength)+"@example.com"))
	assert.Equal(t, "", SanitizeEmail(""))
}

func TestSanitizePassword(t *testing.T) {
	assert.Equal(t, "hunter22", SanitizePassword(" hunter22 "))
	assert.Equal(t, "", SanitizePassword(strings.Repeat("x", MaxPasswordLength+1)))
	// Interior whitespace is part of the password.
	assert.Equal(t, "pass word", SanitizePassword("pass word"))
}
