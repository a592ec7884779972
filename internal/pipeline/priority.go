package pipeline

import (
	"time"

	"github.com/sahajranjan/vidpilot/internal/transfer"
)

// ComputePriority scores a brief for publish triage. Base 50, bumped
// for estimated reach, competitor data, and publish urgency, clamped
// to [0,100].
func ComputePriority(brief *transfer.ContentBrief, now time.Time) int {
	score := 50

	switch {
	case brief.EstimatedViews > 100_000:
		score += 30
	case brief.EstimatedViews > 50_000:
		score += 20
	case brief.EstimatedViews > 10_000:
		score += 10
	}

	if brief.HasCompetitorData {
		score += 10
	}

	if !brief.TargetPublishTime.IsZero() {
		until := brief.TargetPublishTime.Sub(now)
		switch {
		case until < 24*time.Hour:
			score += 20
		case until < 48*time.Hour:
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
