package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sahajranjan/vidpilot/internal/generator"
	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/repository"
	"github.com/sahajranjan/vidpilot/internal/transfer"
)

// ArtifactStore mirrors real stage outputs to object storage.
type ArtifactStore interface {
	Store(ctx context.Context, localPath, prefix string) (string, error)
}

// Pipeline drives a production through the fixed stage order. Every
// stage is try/fallback: a generator failure substitutes a simulated
// placeholder and the run keeps going, so a finished item is always
// ready, never failed, no matter how many stages degraded.
type Pipeline struct {
	pr         repository.ProductionRepository
	generators []generator.StageGenerator
	store      ArtifactStore
	workDir    string
}

func NewPipeline(pr repository.ProductionRepository, store ArtifactStore, workDir string, generators ...generator.StageGenerator) *Pipeline {
	return &Pipeline{
		pr:         pr,
		generators: generators,
		store:      store,
		workDir:    workDir,
	}
}

// Process creates a production record for the brief and runs all
// stages. The record is persisted after every stage, so a crash leaves
// a partially completed item that Resume can pick up.
func (p *Pipeline) Process(ctx context.Context, brief *transfer.ContentBrief) (*models.Production, error) {
	production := &models.Production{
		Title:         brief.Title,
		Topic:         brief.Topic,
		Status:        models.ProductionStatusProcessing,
		Priority:      ComputePriority(brief, time.Now()),
		Timeline:      models.Timeline{},
		ScheduledTime: brief.TargetPublishTime,
	}

	id, err := p.pr.Create(ctx, production)
	if err != nil {
		return nil, fmt.Errorf("create production: %w", err)
	}
	production.ID = id

	return p.run(ctx, production)
}

// Resume continues a partially completed production. Stages with a
// timeline entry are skipped; their timestamps are never rewritten.
func (p *Pipeline) Resume(ctx context.Context, id int64) (*models.Production, error) {
	production, err := p.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if production == nil {
		return nil, fmt.Errorf("production %d not found", id)
	}
	if production.Status != models.ProductionStatusProcessing {
		return production, nil
	}

	return p.run(ctx, production)
}

// Progress reports completed stages as a percentage. Observability
// only, no side effects.
func Progress(production *models.Production) int {
	done := 0
	for _, stage := range models.Stages {
		if _, ok := production.Timeline[stage]; ok {
			done++
		}
	}
	return done * 100 / len(models.Stages)
}

func (p *Pipeline) run(ctx context.Context, production *models.Production) (*models.Production, error) {
	job := &generator.Job{
		ProductionID: production.ID,
		Title:        production.Title,
		Topic:        production.Topic,
		Dir:          filepath.Join(p.workDir, strconv.FormatInt(production.ID, 10)),
	}
	if err := os.MkdirAll(job.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	for _, gen := range p.generators {
		stage := gen.Stage()

		if _, done := production.Timeline[stage]; done {
			rehydrate(job, stage, production.Artifacts.Get(stage))
			continue
		}

		artifact, err := gen.Generate(ctx, job)
		if err != nil {
			slog.Info("stage failed, substituting placeholder",
				"production_id", production.ID, "stage", stage, "error", err.Error())
			artifact = generator.Simulated(stage, err)
		} else if p.store != nil && artifact.Path != "" {
			key, err := p.store.Store(ctx, artifact.Path, stage)
			if err != nil {
				slog.Info("artifact upload failed, keeping local copy",
					"production_id", production.ID, "stage", stage, "error", err.Error())
			} else {
				artifact.StorageKey = key
			}
		}

		production.Artifacts.Set(stage, artifact)
		production.Timeline[stage] = time.Now()

		if err := p.pr.UpdateStages(ctx, production); err != nil {
			return nil, fmt.Errorf("persist stage %s: %w", stage, err)
		}
	}

	production.Status = models.ProductionStatusReady
	if err := p.pr.UpdateStatus(ctx, models.ProductionStatusReady, production.ID); err != nil {
		return nil, fmt.Errorf("mark ready: %w", err)
	}

	return production, nil
}

// rehydrate restores the job fields a completed stage would have set,
// so later stages see them on a resumed run.
func rehydrate(job *generator.Job, stage string, artifact *models.Artifact) {
	if artifact == nil || artifact.Simulated {
		return
	}
	switch stage {
	case models.StageScript:
		job.ScriptPath = artifact.Path
		if data, err := os.ReadFile(artifact.Path); err == nil {
			job.ScriptText = string(data)
		}
	case models.StageThumbnail:
		job.ThumbnailPath = artifact.Path
	case models.StageVideo:
		job.VideoPath = artifact.Path
	case models.StageAudio:
		job.AudioPath = artifact.Path
	case models.StageCaptions:
		job.CaptionsPath = artifact.Path
	}
}
