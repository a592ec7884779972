package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahajranjan/vidpilot/internal/generator"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/transfer"
)

type memProductionRepo struct {
	items  map[int64]*models.Production
	nextID int64
}

func newMemProductionRepo() *memProductionRepo {
	return &memProductionRepo{items: map[int64]*models.Production{}}
}

func (r *memProductionRepo) Create(ctx context.Context, p *models.Production) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	r.items[p.ID] = p
	return p.ID, nil
}

func (r *memProductionRepo) GetByID(ctx context.Context, id int64) (*models.Production, error) {
	return r.items[id], nil
}

func (r *memProductionRepo) ListByStatus(ctx context.Context, status string) ([]*models.Production, error) {
	var out []*models.Production
	for _, p := range r.items {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductionRepo) UpdateStages(ctx context.Context, p *models.Production) error {
	r.items[p.ID] = p
	return nil
}

func (r *memProductionRepo) UpdateStatus(ctx context.Context, status string, id int64) error {
	if p, ok := r.items[id]; ok {
		p.Status = status
	}
	return nil
}

type stubGenerator struct {
	stage string
	fail  bool
	calls int
}

func (g *stubGenerator) Stage() string {
	return g.stage
}

func (g *stubGenerator) Generate(ctx context.Context, job *generator.Job) (*models.Artifact, error) {
	g.calls++
	if g.fail {
		return nil, errors.New("generator unavailable")
	}
	return &models.Artifact{Path: "/artifacts/" + g.stage}, nil
}

func stubGenerators(failing map[string]bool) []generator.StageGenerator {
	gens := make([]generator.StageGenerator, 0, len(models.Stages))
	for _, stage := range models.Stages {
		gens = append(gens, &stubGenerator{stage: stage, fail: failing[stage]})
	}
	return gens
}

func newTestPipeline(t *testing.T, repo *memProductionRepo, failing map[string]bool) (*Pipeline, []generator.StageGenerator) {
	t.Helper()
	gens := stubGenerators(failing)
	return NewPipeline(repo, nil, t.TempDir(), gens...), gens
}

func testBrief() *transfer.ContentBrief {
	return &transfer.ContentBrief{
		Title: "Test Video",
		Topic: "testing",
	}
}

func TestProcessCompletesAllStages(t *testing.T) {
	repo := newMemProductionRepo()
	p, _ := newTestPipeline(t, repo, nil)

	production, err := p.Process(context.Background(), testBrief())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if production.Status != models.ProductionStatusReady {
		t.Fatalf("expected status ready, got %s", production.Status)
	}

	for _, stage := range models.Stages {
		if _, ok := production.Timeline[stage]; !ok {
			t.Fatalf("stage %s missing from timeline", stage)
		}
		artifact := production.Artifacts.Get(stage)
		if artifact == nil {
			t.Fatalf("stage %s has no artifact", stage)
		}
		if artifact.Simulated {
			t.Fatalf("stage %s unexpectedly simulated", stage)
		}
	}

	if got := Progress(production); got != 100 {
		t.Fatalf("expected progress 100, got %d", got)
	}
}

func TestProcessStageFailureFallsBack(t *testing.T) {
	repo := newMemProductionRepo()
	p, _ := newTestPipeline(t, repo, map[string]bool{models.StageThumbnail: true})

	production, err := p.Process(context.Background(), testBrief())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if production.Status != models.ProductionStatusReady {
		t.Fatalf("expected status ready despite stage failure, got %s", production.Status)
	}

	thumbnail := production.Artifacts.Get(models.StageThumbnail)
	if thumbnail == nil || !thumbnail.Simulated {
		t.Fatalf("expected simulated thumbnail, got %+v", thumbnail)
	}
	if thumbnail.Descriptor == "" {
		t.Fatal("simulated artifact has no descriptor")
	}

	for _, stage := range models.Stages {
		if stage == models.StageThumbnail {
			continue
		}
		if artifact := production.Artifacts.Get(stage); artifact == nil || artifact.Simulated {
			t.Fatalf("stage %s should have generated for real, got %+v", stage, artifact)
		}
	}
}

func TestResumeDoesNotRegressTimestamps(t *testing.T) {
	repo := newMemProductionRepo()
	p, gens := newTestPipeline(t, repo, nil)

	production, err := p.Process(context.Background(), testBrief())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	before := map[string]time.Time{}
	for stage, at := range production.Timeline {
		before[stage] = at
	}

	// Force a second pass over the same record.
	production.Status = models.ProductionStatusProcessing
	resumed, err := p.Resume(context.Background(), production.ID)
	if err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}

	for stage, at := range before {
		if !resumed.Timeline[stage].Equal(at) {
			t.Fatalf("stage %s timestamp changed on resume", stage)
		}
	}

	for _, gen := range gens {
		if g := gen.(*stubGenerator); g.calls != 1 {
			t.Fatalf("stage %s ran %d times, want 1", g.stage, g.calls)
		}
	}
}

func TestResumePicksUpMissingStages(t *testing.T) {
	repo := newMemProductionRepo()

	failAudio := map[string]bool{models.StageAudio: true}
	p, gens := newTestPipeline(t, repo, failAudio)

	production, err := p.Process(context.Background(), testBrief())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if artifact := production.Artifacts.Get(models.StageAudio); artifact == nil || !artifact.Simulated {
		t.Fatalf("expected simulated audio, got %+v", artifact)
	}

	// A completed stage stays completed on resume, simulated or not.
	production.Status = models.ProductionStatusProcessing
	if _, err := p.Resume(context.Background(), production.ID); err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	for _, gen := range gens {
		if g := gen.(*stubGenerator); g.calls != 1 {
			t.Fatalf("stage %s ran %d times, want 1", g.stage, g.calls)
		}
	}
}

func TestProgressPartial(t *testing.T) {
	production := &models.Production{Timeline: models.Timeline{
		models.StageScript:    time.Now(),
		models.StageThumbnail: time.Now(),
		models.StageVideo:     time.Now(),
	}}

	if got := Progress(production); got != 50 {
		t.Fatalf("expected progress 50, got %d", got)
	}
}
