package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
)

// Drain publishes every due entry, oldest first, one at a time. A
// failed entry is marked and skipped over; it never aborts the rest of
// the batch. Returns the number of successful publishes.
func (q *PublishQueue) Drain(ctx context.Context, now time.Time) int {
	// One drain at a time: overlapping publishes of the same entry
	// would double-upload if the external service is slow.
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	q.reconcile(ctx, now)

	published := 0
	for _, entry := range q.due(now) {
		if err := q.Publish(ctx, entry); err != nil {
			slog.Info("publish failed", "entry_id", entry.ID, "error", err.Error())
			continue
		}
		published++
	}
	return published
}

// Publish uploads the entry's production bundle. On success the entry
// becomes published and leaves the active queue (history stays in the
// store); on failure it becomes failed and stays visible for the
// operator.
func (q *PublishQueue) Publish(ctx context.Context, entry *models.PublishEntry) error {
	// Re-check under the lock: the entry may have been published,
	// paused, or failed between selection and this call.
	q.mu.Lock()
	if entry.Status != models.PublishStatusScheduled {
		status := entry.Status
		q.mu.Unlock()
		return newValidationError("publish entry %d is %s, not scheduled", entry.ID, status)
	}
	q.mu.Unlock()

	production, err := q.pr.GetByID(ctx, entry.ProductionID)
	if err != nil {
		return fmt.Errorf("load production %d: %w", entry.ProductionID, err)
	}
	if production == nil {
		return q.markFailed(ctx, entry, fmt.Sprintf("production %d not found", entry.ProductionID))
	}

	videoID, videoURL, err := q.uploader.Upload(ctx, production, entry)
	if err != nil {
		return q.markFailed(ctx, entry, err.Error())
	}

	now := time.Now()

	q.mu.Lock()
	entry.Status = models.PublishStatusPublished
	entry.VideoID = videoID
	entry.VideoURL = videoURL
	entry.ErrorMessage = ""
	entry.PublishedAt = &now
	q.mu.Unlock()

	// Persist before dropping the entry from memory. If the store write
	// fails the entry stays in the queue as published, so it is neither
	// due again nor re-adopted from the store's still-scheduled row;
	// the external upload happens at most once.
	if err := q.repo.UpdateResult(ctx, entry); err != nil {
		return fmt.Errorf("persist publish result: %w", err)
	}

	q.mu.Lock()
	q.remove(entry.ID)
	q.mu.Unlock()

	return nil
}

// PublishByID looks an entry up and publishes it immediately,
// regardless of its publish time.
func (q *PublishQueue) PublishByID(ctx context.Context, id int64) error {
	q.mu.Lock()
	entry := q.find(id)
	q.mu.Unlock()

	if entry == nil {
		return newValidationError("publish entry %d not found", id)
	}

	q.drainMu.Lock()
	defer q.drainMu.Unlock()
	return q.Publish(ctx, entry)
}

// reconcile adopts scheduled store rows the in-memory queue has lost
// track of, so a partial write never strands an entry.
func (q *PublishQueue) reconcile(ctx context.Context, now time.Time) {
	stored, err := q.repo.ListDue(ctx, now)
	if err != nil {
		slog.Info("due reconciliation failed", "error", err.Error())
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	for _, entry := range stored {
		if q.find(entry.ID) != nil {
			continue
		}
		slog.Info("adopting entry missing from memory", "entry_id", entry.ID)
		q.insert(entry)
	}
}

func (q *PublishQueue) markFailed(ctx context.Context, entry *models.PublishEntry, message string) error {
	q.mu.Lock()
	entry.Status = models.PublishStatusFailed
	entry.ErrorMessage = message
	q.mu.Unlock()

	if err := q.repo.UpdateResult(ctx, entry); err != nil {
		slog.Info(err.Error())
	}

	return fmt.Errorf("publish entry %d: %s", entry.ID, message)
}
