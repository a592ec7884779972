package generator

import (
	"context"
	"fmt"

	"github.com/sahajranjan/vidpilot/internal/models"
)

// Job carries one production through the stage generators. Stages fill
// in the path fields they produce; later stages read them.
type Job struct {
	ProductionID  int64
	Title         string
	Topic         string
	ScriptText    string
	ScriptPath    string
	ThumbnailPath string
	VideoPath     string
	AudioPath     string
	CaptionsPath  string
	Dir           string
}

// StageGenerator produces the artifact for one pipeline stage. A
// returned error means the real generation failed; the caller decides
// whether to substitute a placeholder.
type StageGenerator interface {
	Stage() string
	Generate(ctx context.Context, job *Job) (*models.Artifact, error)
}

// Simulated builds the placeholder artifact substituted when a stage's
// external call fails.
func Simulated(stage string, cause error) *models.Artifact {
	return &models.Artifact{
		Simulated:  true,
		Descriptor: fmt.Sprintf("simulated %s: %v", stage, cause),
	}
}
