package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/repository"
)

// ValidationError marks a caller mistake: enqueueing a non-ready
// production, touching an unknown entry. Nothing is mutated when one
// is returned.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Uploader is the publish transport.
type Uploader interface {
	Upload(ctx context.Context, production *models.Production, entry *models.PublishEntry) (videoID, videoURL string, err error)
}

// PublishQueue holds the active publish entries ordered by publish
// time (insertion order breaks ties), backed by the store. Published
// entries leave the in-memory queue; failed ones stay for operator
// inspection but are never due again.
type PublishQueue struct {
	mu      sync.Mutex
	drainMu sync.Mutex
	entries []*models.PublishEntry

	repo     repository.PublishRepository
	pr       repository.ProductionRepository
	uploader Uploader
}

func NewPublishQueue(repo repository.PublishRepository, pr repository.ProductionRepository, uploader Uploader) *PublishQueue {
	return &PublishQueue{
		repo:     repo,
		pr:       pr,
		uploader: uploader,
	}
}

// Restore loads active entries from the store after a restart.
func (q *PublishQueue) Restore(ctx context.Context) error {
	entries, err := q.repo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("restore publish queue: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = entries
	return nil
}

// Enqueue hands a ready production to the queue. Exactly one scheduled
// entry may exist per production.
func (q *PublishQueue) Enqueue(ctx context.Context, production *models.Production) (*models.PublishEntry, error) {
	if production.Status != models.ProductionStatusReady {
		return nil, newValidationError("production %d is %s, not ready", production.ID, production.Status)
	}

	exists, err := q.repo.ExistsScheduled(ctx, production.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newValidationError("production %d already has a scheduled entry", production.ID)
	}

	publishTime := production.ScheduledTime
	if publishTime.IsZero() {
		publishTime = time.Now()
	}

	entry := &models.PublishEntry{
		ProductionID: production.ID,
		Title:        production.Title,
		PublishTime:  publishTime,
		Status:       models.PublishStatusScheduled,
		Priority:     production.Priority,
		CreatedAt:    time.Now(),
	}

	id, err := q.repo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	q.mu.Lock()
	q.insert(entry)
	q.mu.Unlock()

	return entry, nil
}

// DueItems returns copies of the scheduled entries whose publish time
// has arrived, ascending by publish time. Non-mutating.
func (q *PublishQueue) DueItems(now time.Time) []models.PublishEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []models.PublishEntry
	for _, entry := range q.entries {
		if entry.Status == models.PublishStatusScheduled && !entry.PublishTime.After(now) {
			due = append(due, *entry)
		}
	}
	return due
}

// due is the live selection Drain publishes from. Callers outside the
// package get copies via DueItems instead.
func (q *PublishQueue) due(now time.Time) []*models.PublishEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*models.PublishEntry
	for _, entry := range q.entries {
		if entry.Status == models.PublishStatusScheduled && !entry.PublishTime.After(now) {
			due = append(due, entry)
		}
	}
	return due
}

// Entries returns a snapshot of the active queue. The copies are safe
// to read while the queue keeps mutating the live entries.
func (q *PublishQueue) Entries() []models.PublishEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]models.PublishEntry, 0, len(q.entries))
	for _, entry := range q.entries {
		snapshot = append(snapshot, *entry)
	}
	return snapshot
}

// Pause takes a scheduled entry out of contention for draining.
func (q *PublishQueue) Pause(ctx context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry := q.find(id)
	if entry == nil {
		return newValidationError("publish entry %d not found", id)
	}
	if entry.Status != models.PublishStatusScheduled {
		return newValidationError("publish entry %d is %s, not scheduled", id, entry.Status)
	}

	if err := q.repo.UpdateSchedule(ctx, id, models.PublishStatusPaused, entry.PublishTime); err != nil {
		return err
	}
	entry.Status = models.PublishStatusPaused
	return nil
}

// Resume puts a paused entry back on schedule, optionally at a new
// publish time.
func (q *PublishQueue) Resume(ctx context.Context, id int64, newTime *time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry := q.find(id)
	if entry == nil {
		return newValidationError("publish entry %d not found", id)
	}
	if entry.Status != models.PublishStatusPaused {
		return newValidationError("publish entry %d is %s, not paused", id, entry.Status)
	}

	publishTime := entry.PublishTime
	if newTime != nil {
		publishTime = *newTime
	}

	if err := q.repo.UpdateSchedule(ctx, id, models.PublishStatusScheduled, publishTime); err != nil {
		return err
	}

	entry.Status = models.PublishStatusScheduled
	if newTime != nil {
		entry.PublishTime = publishTime
		q.remove(id)
		q.insert(entry)
	}
	return nil
}

// Reschedule moves a still-scheduled entry to a new publish time.
// Used by the optimization pass; published and failed history is never
// touched.
func (q *PublishQueue) Reschedule(ctx context.Context, id int64, newTime time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entry := q.find(id)
	if entry == nil {
		return newValidationError("publish entry %d not found", id)
	}
	if entry.Status != models.PublishStatusScheduled {
		return newValidationError("publish entry %d is %s, not scheduled", id, entry.Status)
	}

	if err := q.repo.UpdateSchedule(ctx, id, models.PublishStatusScheduled, newTime); err != nil {
		return err
	}

	entry.PublishTime = newTime
	q.remove(id)
	q.insert(entry)
	return nil
}

// insert keeps entries ascending by publish time; an entry with the
// same time as an existing one goes after it. Caller holds q.mu.
func (q *PublishQueue) insert(entry *models.PublishEntry) {
	at := len(q.entries)
	for i, existing := range q.entries {
		if existing.PublishTime.After(entry.PublishTime) {
			at = i
			break
		}
	}
	q.entries = append(q.entries, nil)
	copy(q.entries[at+1:], q.entries[at:])
	q.entries[at] = entry
}

func (q *PublishQueue) find(id int64) *models.PublishEntry {
	for _, entry := range q.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

func (q *PublishQueue) remove(id int64) {
	for i, entry := range q.entries {
		if entry.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}
