package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
)

type PublishRepository interface {
	Create(ctx context.Context, entry *models.PublishEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PublishEntry, error)
	ListActive(ctx context.Context) ([]*models.PublishEntry, error)
	ListDue(ctx context.Context, before time.Time) ([]*models.PublishEntry, error)
	ListPublishedSince(ctx context.Context, since time.Time) ([]*models.PublishEntry, error)
	ExistsScheduled(ctx context.Context, productionID int64) (bool, error)
	UpdateResult(ctx context.Context, entry *models.PublishEntry) error
	UpdateSchedule(ctx context.Context, id int64, status string, publishTime time.Time) error
}

type publishRepository struct {
	db *sql.DB
}

func NewPublishRepository(db *sql.DB) PublishRepository {
	return &publishRepository{db: db}
}

const publishColumns = `id, production_id, title, publish_time, status, priority, video_id, video_url, error_message, published_at, created_at`

func (r *publishRepository) Create(ctx context.Context, entry *models.PublishEntry) (int64, error) {
	query := `
		INSERT INTO publish_entries (production_id, title, publish_time, status, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		entry.ProductionID, entry.Title, entry.PublishTime, entry.Status, entry.Priority).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publishRepository) GetByID(ctx context.Context, id int64) (*models.PublishEntry, error) {
	query := `SELECT ` + publishColumns + ` FROM publish_entries WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	entry, err := scanPublishEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return entry, nil
}

// ListActive returns scheduled and paused entries, the ones the
// in-memory queue holds after a restart.
func (r *publishRepository) ListActive(ctx context.Context) ([]*models.PublishEntry, error) {
	query := `SELECT ` + publishColumns + ` FROM publish_entries WHERE status = $1 OR status = $2 ORDER BY publish_time, id`
	return r.list(ctx, query, models.PublishStatusScheduled, models.PublishStatusPaused)
}

// ListDue is the store-side due query, used to reconcile the in-memory
// queue against rows it may have lost track of.
func (r *publishRepository) ListDue(ctx context.Context, before time.Time) ([]*models.PublishEntry, error) {
	query := `SELECT ` + publishColumns + ` FROM publish_entries WHERE status = $1 AND publish_time <= $2 ORDER BY publish_time, id`
	return r.list(ctx, query, models.PublishStatusScheduled, before)
}

func (r *publishRepository) ListPublishedSince(ctx context.Context, since time.Time) ([]*models.PublishEntry, error) {
	query := `SELECT ` + publishColumns + ` FROM publish_entries WHERE status = $1 AND published_at >= $2 ORDER BY published_at`
	return r.list(ctx, query, models.PublishStatusPublished, since)
}

func (r *publishRepository) ExistsScheduled(ctx context.Context, productionID int64) (bool, error) {
	query := `SELECT 1 FROM publish_entries WHERE production_id = $1 AND status = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, productionID, models.PublishStatusScheduled).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *publishRepository) UpdateResult(ctx context.Context, entry *models.PublishEntry) error {
	query := `
		UPDATE publish_entries
		SET status = $1,
			video_id = $2,
			video_url = $3,
			error_message = $4,
			published_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.Status, entry.VideoID, entry.VideoURL, entry.ErrorMessage, entry.PublishedAt, entry.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *publishRepository) UpdateSchedule(ctx context.Context, id int64, status string, publishTime time.Time) error {
	query := `
		UPDATE publish_entries
		SET status = $1,
			publish_time = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, publishTime, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *publishRepository) list(ctx context.Context, query string, args ...any) ([]*models.PublishEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*models.PublishEntry
	for rows.Next() {
		entry, err := scanPublishEntry(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func scanPublishEntry(row rowScanner) (*models.PublishEntry, error) {
	var entry models.PublishEntry
	err := row.Scan(&entry.ID, &entry.ProductionID, &entry.Title, &entry.PublishTime,
		&entry.Status, &entry.Priority, &entry.VideoID, &entry.VideoURL,
		&entry.ErrorMessage, &entry.PublishedAt, &entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
