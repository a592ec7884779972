package pipeline

import (
	"testing"
	"time"

	"github.com/sahajranjan/vidpilot/internal/transfer"
)

func TestComputePriorityBase(t *testing.T) {
	brief := &transfer.ContentBrief{}
	if got := ComputePriority(brief, time.Now()); got != 50 {
		t.Fatalf("expected base priority 50, got %d", got)
	}
}

func TestComputePriorityScenario(t *testing.T) {
	now := time.Now()
	brief := &transfer.ContentBrief{
		EstimatedViews:    200_000,
		TargetPublishTime: now.Add(12 * time.Hour),
	}

	// 50 base + 30 reach + 20 urgency, clamped at 100.
	if got := ComputePriority(brief, now); got != 100 {
		t.Fatalf("expected priority 100, got %d", got)
	}
}

func TestComputePriorityClamped(t *testing.T) {
	now := time.Now()
	brief := &transfer.ContentBrief{
		EstimatedViews:    10_000_000,
		HasCompetitorData: true,
		TargetPublishTime: now.Add(1 * time.Hour),
	}

	if got := ComputePriority(brief, now); got > 100 {
		t.Fatalf("priority exceeded 100: %d", got)
	}
}

func TestComputePriorityTiers(t *testing.T) {
	now := time.Now()
	cases := []struct {
		views int64
		want  int
	}{
		{200_000, 80},
		{60_000, 70},
		{15_000, 60},
		{5_000, 50},
	}

	for _, tc := range cases {
		brief := &transfer.ContentBrief{EstimatedViews: tc.views}
		if got := ComputePriority(brief, now); got != tc.want {
			t.Fatalf("views %d: expected %d, got %d", tc.views, tc.want, got)
		}
	}
}

func TestComputePriorityUrgencyWindow(t *testing.T) {
	now := time.Now()

	near := &transfer.ContentBrief{TargetPublishTime: now.Add(30 * time.Hour)}
	if got := ComputePriority(near, now); got != 60 {
		t.Fatalf("expected 60 for <48h window, got %d", got)
	}

	far := &transfer.ContentBrief{TargetPublishTime: now.Add(72 * time.Hour)}
	if got := ComputePriority(far, now); got != 50 {
		t.Fatalf("expected 50 beyond urgency windows, got %d", got)
	}
}
