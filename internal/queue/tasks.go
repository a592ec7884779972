package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/sahajranjan/vidpilot/internal/transfer"
)

const TaskTypeGenerate = "production:generate"

type GeneratePayload struct {
	Brief *transfer.ContentBrief `json:"brief"`
}

// EnqueueGeneration hands a content brief to the asynq worker pool,
// where the production pipeline runs it.
func EnqueueGeneration(asynqClient *asynq.Client, payload GeneratePayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeGenerate, taskPayload)

	_, err = asynqClient.Enqueue(task)
	if err != nil {
		return err
	}

	log.Printf("Production task scheduled: %q", payload.Brief.Title)
	return nil
}
