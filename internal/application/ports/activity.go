package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/domain"
)

// ActivityRecorder accepts activity entries for eventual persistence. The asynq
// implementation enqueues; the sync implementation writes through directly.
// Recording is best-effort: callers log failures but do not fail the mutation.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *domain.ActivityEntry) error
}
