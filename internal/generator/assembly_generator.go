package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sahajranjan/vidpilot/internal/models"
)

// AssemblyGenerator muxes the footage and narration into the final
// upload bundle with ffmpeg.
type AssemblyGenerator struct {
	ffmpegPath string
}

func NewAssemblyGenerator(ffmpegPath string) *AssemblyGenerator {
	return &AssemblyGenerator{ffmpegPath: ffmpegPath}
}

func (g *AssemblyGenerator) Stage() string {
	return models.StageAssembly
}

func (g *AssemblyGenerator) Generate(ctx context.Context, job *Job) (*models.Artifact, error) {
	if job.VideoPath == "" {
		return nil, errors.New("no footage to assemble")
	}
	if job.AudioPath == "" {
		return nil, errors.New("no narration to assemble")
	}

	outFile := filepath.Join(job.Dir, "final.mp4")

	args := []string{
		"-y",
		"-i", job.VideoPath,
		"-i", job.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		outFile,
	}

	cmd := exec.CommandContext(ctx, g.ffmpegPath, args...)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg mux: %w", err)
	}

	return &models.Artifact{Path: outFile}, nil
}
