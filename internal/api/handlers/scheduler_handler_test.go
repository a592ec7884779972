package handlers

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/repository"
)

type captureEventsRepo struct {
	filter repository.EventFilter
}

func (r *captureEventsRepo) Create(ctx context.Context, event *models.AutomationEvent) (int64, error) {
	return 0, nil
}

func (r *captureEventsRepo) List(ctx context.Context, filter repository.EventFilter) ([]*models.AutomationEvent, error) {
	r.filter = filter
	return nil, nil
}

func TestListEventsLimit(t *testing.T) {
	repo := &captureEventsRepo{}
	h := NewSchedulerHandler(nil, repo)

	app := fiber.New()
	app.Get("/events", h.ListEvents)

	resp, err := app.Test(httptest.NewRequest("GET", "/events", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if repo.filter.Limit != 50 {
		t.Fatalf("default limit = %d, want 50", repo.filter.Limit)
	}

	// A negative limit must not wrap around to a huge unsigned value.
	if _, err := app.Test(httptest.NewRequest("GET", "/events?limit=-5", nil)); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if repo.filter.Limit != 0 {
		t.Fatalf("negative limit = %d, want 0", repo.filter.Limit)
	}
}
