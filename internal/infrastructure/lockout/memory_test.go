package lockout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocksAfterMaxAttempts(t *testing.T) {
	s := NewMemoryStore(3, 60)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		s.RecordFailure(ctx, "alice@example.com")
		locked, _ := s.IsLocked(ctx, "alice@example.com")
		assert.False(t, locked, "attempt %d", i+1)
	}

	s.RecordFailure(ctx, "alice@example.com")
	locked, retryAfter := s.IsLocked(ctx, "alice@example.com")
	assert.True(t, locked)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestSuccessClearsState(t *testing.T) {
	s := NewMemoryStore(3, 60)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.RecordFailure(ctx, "alice@example.com")
	}
	locked, _ := s.IsLocked(ctx, "alice@example.com")
	assert.True(t, locked)

	s.RecordSuccess(ctx, "alice@example.com")
	locked, _ = s.IsLocked(ctx, "alice@example.com")
	assert.False(t, locked)
}

func TestAccountsAreIndependent(t *testing.T) {
	s := NewMemoryStore(2, 60)
	ctx := context.Background()

	s.RecordFailure(ctx, "alice@example.com")
	s.RecordFailure(ctx, "alice@example.com")

	locked, _ := s.IsLocked(ctx, "alice@example.com")
	assert.True(t, locked)
	locked, _ = s.IsLocked(ctx, "bob@example.com")
	assert.False(t, locked)
}

func TestZeroMaxDisablesLockout(t *testing.T) {
	s := NewMemoryStore(0, 60)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		s.RecordFailure(ctx, "alice@example.com")
	}
	locked, _ := s.IsLocked(ctx, "alice@example.com")
	assert.False(t, locked)
}
