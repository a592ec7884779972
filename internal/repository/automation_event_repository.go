package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sahajranjan/vidpilot/internal/models"
)

// EventFilter narrows the automation log listing. Zero values mean
// "no filter".
type EventFilter struct {
	TaskName string
	Status   string
	Since    time.Time
	Limit    uint64
}

type AutomationEventRepository interface {
	Create(ctx context.Context, event *models.AutomationEvent) (int64, error)
	List(ctx context.Context, filter EventFilter) ([]*models.AutomationEvent, error)
}

type automationEventRepository struct {
	db *sql.DB
}

func NewAutomationEventRepository(db *sql.DB) AutomationEventRepository {
	return &automationEventRepository{db: db}
}

func (r *automationEventRepository) Create(ctx context.Context, event *models.AutomationEvent) (int64, error) {
	query := `
		INSERT INTO automation_events (task_name, status, message)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, event.TaskName, event.Status, event.Message).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *automationEventRepository) List(ctx context.Context, filter EventFilter) ([]*models.AutomationEvent, error) {
	builder := sq.Select("id", "task_name", "status", "message", "created_at").
		From("automation_events").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.TaskName != "" {
		builder = builder.Where(sq.Eq{"task_name": filter.TaskName})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"created_at": filter.Since})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var events []*models.AutomationEvent
	for rows.Next() {
		var event models.AutomationEvent
		err := rows.Scan(&event.ID, &event.TaskName, &event.Status, &event.Message, &event.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		events = append(events, &event)
	}
	return events, nil
}
