package models

import "time"

type PublishEntry struct {
	ID           int64      `db:"id" json:"id"`
	ProductionID int64      `db:"production_id" json:"production_id"`
	Title        string     `db:"title" json:"title"`
	PublishTime  time.Time  `db:"publish_time" json:"publish_time"`
	Status       string     `db:"status" json:"status"` // scheduled, paused, published, failed
	Priority     int        `db:"priority" json:"priority"`
	VideoID      string     `db:"video_id" json:"video_id"`
	VideoURL     string     `db:"video_url" json:"video_url"`
	ErrorMessage string     `db:"error_message" json:"error_message"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

const (
	PublishStatusScheduled = "scheduled"
	PublishStatusPaused    = "paused"
	PublishStatusPublished = "published"
	PublishStatusFailed    = "failed"
)
