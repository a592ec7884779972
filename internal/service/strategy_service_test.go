package service

import (
	"context"
	"testing"
	"time"

	config "github.com/sahajranjan/vidpilot/configs"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/queue"
	"github.com/sahajranjan/vidpilot/internal/repository"
)

type stubPublishRepo struct {
	active    []*models.PublishEntry
	published []*models.PublishEntry

	rescheduled map[int64]time.Time
}

func (r *stubPublishRepo) Create(ctx context.Context, entry *models.PublishEntry) (int64, error) {
	return 1, nil
}

func (r *stubPublishRepo) GetByID(ctx context.Context, id int64) (*models.PublishEntry, error) {
	for _, e := range r.active {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *stubPublishRepo) ListActive(ctx context.Context) ([]*models.PublishEntry, error) {
	return r.active, nil
}

func (r *stubPublishRepo) ListDue(ctx context.Context, before time.Time) ([]*models.PublishEntry, error) {
	return nil, nil
}

func (r *stubPublishRepo) ListPublishedSince(ctx context.Context, since time.Time) ([]*models.PublishEntry, error) {
	return r.published, nil
}

func (r *stubPublishRepo) ExistsScheduled(ctx context.Context, productionID int64) (bool, error) {
	return false, nil
}

func (r *stubPublishRepo) UpdateResult(ctx context.Context, entry *models.PublishEntry) error {
	return nil
}

func (r *stubPublishRepo) UpdateSchedule(ctx context.Context, id int64, status string, publishTime time.Time) error {
	if r.rescheduled == nil {
		r.rescheduled = map[int64]time.Time{}
	}
	r.rescheduled[id] = publishTime
	return nil
}

type stubEventsRepo struct {
	events []*models.AutomationEvent
}

func (r *stubEventsRepo) Create(ctx context.Context, e *models.AutomationEvent) (int64, error) {
	r.events = append(r.events, e)
	return int64(len(r.events)), nil
}

func (r *stubEventsRepo) List(ctx context.Context, filter repository.EventFilter) ([]*models.AutomationEvent, error) {
	var out []*models.AutomationEvent
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if filter.TaskName != "" && e.TaskName != filter.TaskName {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && uint64(len(out)) >= filter.Limit {
			break
		}
	}
	return out, nil
}

type stubYoutube struct {
	stats []VideoStats
}

func (y *stubYoutube) Upload(ctx context.Context, production *models.Production, entry *models.PublishEntry) (string, string, error) {
	return "vid", "https://youtu.be/vid", nil
}

func (y *stubYoutube) RefreshToken(ctx context.Context, account *models.ChannelAccount) error {
	return nil
}

func (y *stubYoutube) VideoStats(ctx context.Context, videoIDs []string) ([]VideoStats, error) {
	return y.stats, nil
}

func testSchedule(frequency string, bufferDays int) *config.Schedule {
	return &config.Schedule{
		PostingFrequency: frequency,
		BufferDays:       bufferDays,
	}
}

func scheduledEntry(id int64, publishTime time.Time) *models.PublishEntry {
	return &models.PublishEntry{
		ID:           id,
		ProductionID: id,
		Title:        "test video",
		PublishTime:  publishTime,
		Status:       models.PublishStatusScheduled,
	}
}

func TestShouldGenerateSkipsWhenBufferIsFull(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	pub := &stubPublishRepo{active: []*models.PublishEntry{
		scheduledEntry(1, now.Add(24*time.Hour)),
		scheduledEntry(2, now.Add(48*time.Hour)),
		scheduledEntry(3, now.Add(72*time.Hour)),
	}}

	svc := NewStrategyService(testSchedule(config.FrequencyDaily, 3), pub, &stubEventsRepo{}, &stubYoutube{}, nil)

	ok, reason, err := svc.ShouldGenerate(context.Background(), now)
	if err != nil {
		t.Fatalf("ShouldGenerate returned error: %v", err)
	}
	if ok {
		t.Fatal("expected skip with 3 upcoming videos and a 3-day buffer")
	}
	if reason == "" {
		t.Fatal("skip has no reason")
	}
}

func TestShouldGenerateBelowBuffer(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	pub := &stubPublishRepo{active: []*models.PublishEntry{
		scheduledEntry(1, now.Add(24*time.Hour)),
		scheduledEntry(2, now.Add(48*time.Hour)),
	}}

	svc := NewStrategyService(testSchedule(config.FrequencyDaily, 3), pub, &stubEventsRepo{}, &stubYoutube{}, nil)

	ok, _, err := svc.ShouldGenerate(context.Background(), now)
	if err != nil {
		t.Fatalf("ShouldGenerate returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected generation with only 2 of 3 buffer slots filled")
	}
}

func TestShouldGenerateIgnoresPastAndPausedEntries(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	paused := scheduledEntry(3, now.Add(24*time.Hour))
	paused.Status = models.PublishStatusPaused
	pub := &stubPublishRepo{active: []*models.PublishEntry{
		scheduledEntry(1, now.Add(-time.Hour)),
		scheduledEntry(2, now.Add(24*time.Hour)),
		paused,
	}}

	svc := NewStrategyService(testSchedule(config.FrequencyDaily, 2), pub, &stubEventsRepo{}, &stubYoutube{}, nil)

	ok, _, err := svc.ShouldGenerate(context.Background(), now)
	if err != nil {
		t.Fatalf("ShouldGenerate returned error: %v", err)
	}
	if !ok {
		t.Fatal("past and paused entries should not count against the buffer")
	}
}

func TestShouldGenerateRespectsPostingFrequency(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	events := &stubEventsRepo{events: []*models.AutomationEvent{{
		TaskName:  generationTaskName,
		Status:    models.EventStatusSuccess,
		CreatedAt: now.Add(-2 * time.Hour),
	}}}
	svc := NewStrategyService(testSchedule(config.FrequencyDaily, 5), &stubPublishRepo{}, events, &stubYoutube{}, nil)

	ok, reason, err := svc.ShouldGenerate(context.Background(), now)
	if err != nil {
		t.Fatalf("ShouldGenerate returned error: %v", err)
	}
	if ok {
		t.Fatal("expected skip 2h after the last daily generation")
	}
	if reason == "" {
		t.Fatal("skip has no reason")
	}

	events.events[0].CreatedAt = now.Add(-30 * time.Hour)
	ok, _, err = svc.ShouldGenerate(context.Background(), now)
	if err != nil {
		t.Fatalf("ShouldGenerate returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected generation 30h after the last daily generation")
	}
}

func TestNextBriefRotatesTopicsAndTargetsBestSlot(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // Monday
	svc := NewStrategyService(testSchedule(config.FrequencyDaily, 3), &stubPublishRepo{}, &stubEventsRepo{}, &stubYoutube{}, nil)

	first := svc.NextBrief(now)
	second := svc.NextBrief(now)

	if first.Topic == second.Topic {
		t.Fatalf("rotation did not advance: %q twice", first.Topic)
	}
	if first.Title == "" || len(first.Tags) == 0 {
		t.Fatalf("incomplete brief: %+v", first)
	}
	if !isBestSlot(first.TargetPublishTime) {
		t.Fatalf("target publish time %v is not a strong slot", first.TargetPublishTime)
	}
	if !first.TargetPublishTime.After(now) {
		t.Fatalf("target publish time %v is in the past", first.TargetPublishTime)
	}
}

func TestNextBestSlot(t *testing.T) {
	loc := time.UTC

	// Monday noon rolls forward to Thursday 15:00.
	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, loc)
	if got := NextBestSlot(monday); got != time.Date(2026, 3, 5, 15, 0, 0, 0, loc) {
		t.Fatalf("from Monday noon got %v", got)
	}

	// Mid-Thursday moves to the same day's next hour.
	thursday := time.Date(2026, 3, 5, 16, 0, 0, 0, loc)
	if got := NextBestSlot(thursday); got != time.Date(2026, 3, 5, 18, 0, 0, 0, loc) {
		t.Fatalf("from Thursday 16:00 got %v", got)
	}

	// Saturday night wraps to next Thursday.
	saturday := time.Date(2026, 3, 7, 21, 0, 0, 0, loc)
	if got := NextBestSlot(saturday); got != time.Date(2026, 3, 12, 15, 0, 0, 0, loc) {
		t.Fatalf("from Saturday 21:00 got %v", got)
	}
}

func TestOptimizePublishTimesMovesWeakSlots(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	weak := scheduledEntry(1, time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC))   // Monday morning
	strong := scheduledEntry(2, time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)) // Thursday evening
	pub := &stubPublishRepo{active: []*models.PublishEntry{strong, weak}}

	pq := queue.NewPublishQueue(pub, nil, nil)
	if err := pq.Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	svc := NewStrategyService(testSchedule(config.FrequencyDaily, 3), pub, &stubEventsRepo{}, &stubYoutube{}, pq)

	moved, err := svc.OptimizePublishTimes(context.Background(), now)
	if err != nil {
		t.Fatalf("OptimizePublishTimes returned error: %v", err)
	}
	if moved != 1 {
		t.Fatalf("moved %d entries, want 1", moved)
	}

	newTime, ok := pub.rescheduled[weak.ID]
	if !ok {
		t.Fatal("weak entry was not rescheduled in the store")
	}
	if !isBestSlot(newTime) {
		t.Fatalf("rescheduled to %v which is not a strong slot", newTime)
	}
	if _, ok := pub.rescheduled[strong.ID]; ok {
		t.Fatal("entry already on a strong slot was rescheduled")
	}
}

func TestPerformanceScore(t *testing.T) {
	// Viral video with heavy engagement clamps at 100.
	viral := VideoStats{Views: 500_000, Likes: 40_000, Comments: 5_000}
	if got := PerformanceScore(viral); got != 100 {
		t.Fatalf("viral score = %d, want 100", got)
	}

	// Mid-tier views, modest engagement.
	mid := VideoStats{Views: 50_000, Likes: 600, Comments: 100}
	if got := PerformanceScore(mid); got != 50 {
		t.Fatalf("mid score = %d, want 50", got)
	}

	// No views, no score.
	if got := PerformanceScore(VideoStats{}); got != 0 {
		t.Fatalf("zero score = %d, want 0", got)
	}
}
