package queue

import (
	"context"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

// SyncRecorder writes activity entries straight through to the repository.
// Used when Redis is not configured.
type SyncRecorder struct {
	entries ports.ActivityRepository
}

func NewSyncRecorder(entries ports.ActivityRepository) *SyncRecorder {
	return &SyncRecorder{entries: entries}
}

func (r *SyncRecorder) Record(ctx context.Context, entry *domain.ActivityEntry) error {
	return r.entries.Insert(ctx, entry)
}

var _ ports.ActivityRecorder = (*SyncRecorder)(nil)
