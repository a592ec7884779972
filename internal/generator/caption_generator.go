package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
)

// Spoken narration pace used to estimate caption timing.
const wordsPerMinute = 130.0

// CaptionGenerator builds an SRT track from the script text, one cue
// per sentence, timed at natural reading pace.
type CaptionGenerator struct{}

func NewCaptionGenerator() *CaptionGenerator {
	return &CaptionGenerator{}
}

func (g *CaptionGenerator) Stage() string {
	return models.StageCaptions
}

func (g *CaptionGenerator) Generate(ctx context.Context, job *Job) (*models.Artifact, error) {
	if job.ScriptText == "" {
		return nil, errors.New("no script text to caption")
	}

	var b strings.Builder
	cursor := time.Duration(0)
	index := 0

	for _, line := range strings.Split(job.ScriptText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		words := len(strings.Fields(line))
		duration := time.Duration(float64(words) / wordsPerMinute * float64(time.Minute))
		if duration < time.Second {
			duration = time.Second
		}

		index++
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			index, srtTimestamp(cursor), srtTimestamp(cursor+duration), line)
		cursor += duration
	}

	if index == 0 {
		return nil, errors.New("script produced no caption cues")
	}

	outFile := filepath.Join(job.Dir, "captions.srt")
	if err := os.WriteFile(outFile, []byte(b.String()), 0644); err != nil {
		return nil, fmt.Errorf("write captions: %w", err)
	}

	job.CaptionsPath = outFile
	return &models.Artifact{Path: outFile}, nil
}

func srtTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
