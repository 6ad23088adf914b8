package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"member", "admin", "owner"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, Role(valid), role)
	}
	for _, invalid := range []string{"", "Owner", "superuser"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestRoleIn(t *testing.T) {
	assert.True(t, RoleAdmin.In(RoleAdmin, RoleOwner))
	assert.False(t, RoleMember.In(RoleAdmin, RoleOwner))
	assert.False(t, RoleOwner.In())
}

func TestParseTaskStatus(t *testing.T) {
	for _, valid := range []string{"pending", "in_progress", "completed"} {
		status, ok := ParseTaskStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, TaskStatus(valid), status)
	}
	for _, invalid := range []string{"", "done", "IN_PROGRESS"} {
		_, ok := ParseTaskStatus(invalid)
		assert.False(t, ok, invalid)
	}
}
