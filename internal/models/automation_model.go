package models

import "time"

// AutomationEvent is one row of the append-only automation run log.
type AutomationEvent struct {
	ID        int64     `db:"id" json:"id"`
	TaskName  string    `db:"task_name" json:"task_name"`
	Status    string    `db:"status" json:"status"` // success, failed, skipped
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	EventStatusSuccess = "success"
	EventStatusFailed  = "failed"
	EventStatusSkipped = "skipped"
)
