package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

// Worker drains the activity queue into the activity repository.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(redisOpt asynq.RedisClientOpt, entries ports.ActivityRepository, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Logger:      nil,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRecordActivity, func(ctx context.Context, t *asynq.Task) error {
		var p activityPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Warn().Err(err).Msg("malformed activity payload")
			return nil // do not retry garbage
		}
		entry := &domain.ActivityEntry{
			ID:        p.ID,
			ProjectID: domain.NewProjectID(p.ProjectID),
			UserID:    domain.NewUserID(p.UserID),
			Action:    p.Action,
			Metadata:  p.Metadata,
			CreatedAt: p.CreatedAt,
		}
		if err := entries.Insert(ctx, entry); err != nil {
			log.Warn().Err(err).Str("action", p.Action).Msg("persist activity failed")
			return err
		}
		return nil
	})
	return &Worker{srv: srv, mux: mux}
}

func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
