package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
)

type ProductionRepository interface {
	Create(ctx context.Context, production *models.Production) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Production, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Production, error)
	UpdateStages(ctx context.Context, production *models.Production) error
	UpdateStatus(ctx context.Context, status string, id int64) error
}

type productionRepository struct {
	db *sql.DB
}

func NewProductionRepository(db *sql.DB) ProductionRepository {
	return &productionRepository{db: db}
}

func (r *productionRepository) Create(ctx context.Context, production *models.Production) (int64, error) {
	query := `
		INSERT INTO productions (title, topic, status, priority, artifacts, timeline, scheduled_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	artifacts, err := production.Artifacts.MarshalBlob()
	if err != nil {
		return 0, err
	}
	timeline, err := production.Timeline.MarshalBlob()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		production.Title, production.Topic, production.Status, production.Priority,
		artifacts, timeline, production.ScheduledTime).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *productionRepository) GetByID(ctx context.Context, id int64) (*models.Production, error) {
	query := `SELECT id, title, topic, status, priority, artifacts, timeline, scheduled_time, created_at, updated_at FROM productions WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	production, err := scanProduction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return production, nil
}

func (r *productionRepository) ListByStatus(ctx context.Context, status string) ([]*models.Production, error) {
	query := `SELECT id, title, topic, status, priority, artifacts, timeline, scheduled_time, created_at, updated_at FROM productions WHERE status = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var productions []*models.Production
	for rows.Next() {
		production, err := scanProduction(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		productions = append(productions, production)
	}
	return productions, nil
}

func (r *productionRepository) UpdateStages(ctx context.Context, production *models.Production) error {
	query := `
		UPDATE productions
		SET artifacts = $1,
			timeline = $2,
			updated_at = $3
		WHERE id = $4
	`

	artifacts, err := production.Artifacts.MarshalBlob()
	if err != nil {
		return err
	}
	timeline, err := production.Timeline.MarshalBlob()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, artifacts, timeline, time.Now(), production.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *productionRepository) UpdateStatus(ctx context.Context, status string, id int64) error {
	query := `
		UPDATE productions
		SET status = $1,
			updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduction(row rowScanner) (*models.Production, error) {
	var production models.Production
	var artifacts, timeline []byte

	err := row.Scan(&production.ID, &production.Title, &production.Topic, &production.Status,
		&production.Priority, &artifacts, &timeline, &production.ScheduledTime,
		&production.CreatedAt, &production.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(artifacts) > 0 {
		if err := json.Unmarshal(artifacts, &production.Artifacts); err != nil {
			return nil, err
		}
	}
	production.Timeline = models.Timeline{}
	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &production.Timeline); err != nil {
			return nil, err
		}
	}

	return &production, nil
}
