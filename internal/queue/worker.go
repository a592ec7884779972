package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/hibiken/asynq"
	"github.com/sahajranjan/vidpilot/internal/pipeline"
)

// Worker runs production tasks off the asynq queue and hands finished
// items to the publish queue.
type Worker struct {
	pl *pipeline.Pipeline
	pq *PublishQueue
}

func NewWorker(pl *pipeline.Pipeline, pq *PublishQueue) *Worker {
	return &Worker{pl: pl, pq: pq}
}

func (w *Worker) HandleGenerateTask(ctx context.Context, task *asynq.Task) error {
	var payload GeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}
	if payload.Brief == nil {
		return errors.New("generate task has no brief")
	}

	production, err := w.pl.Process(ctx, payload.Brief)
	if err != nil {
		return err
	}

	if _, err := w.pq.Enqueue(ctx, production); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			// Already queued or not publishable; the production record
			// itself is intact, so don't retry the whole task.
			log.Printf("Skipping enqueue for production %d: %v", production.ID, err)
			return nil
		}
		return err
	}

	log.Printf("Production %d ready and queued for publishing", production.ID)
	return nil
}
