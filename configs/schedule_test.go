package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadScheduleMissingFileUsesDefaults(t *testing.T) {
	sched, err := LoadSchedule(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadSchedule failed: %v", err)
	}
	if sched.PostingFrequency != FrequencyDaily {
		t.Fatalf("frequency = %q, want daily", sched.PostingFrequency)
	}
	if sched.BufferDays != 3 {
		t.Fatalf("buffer days = %d, want 3", sched.BufferDays)
	}
	if sched.Triggers["queue-drain"] == "" {
		t.Fatal("default trigger for queue-drain missing")
	}
}

func TestLoadScheduleMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	content := `
posting_frequency: weekly
buffer_days: 5
triggers:
  content-generation: "0 0 12 * * *"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sched, err := LoadSchedule(path)
	if err != nil {
		t.Fatalf("LoadSchedule failed: %v", err)
	}
	if sched.PostingFrequency != FrequencyWeekly {
		t.Fatalf("frequency = %q, want weekly", sched.PostingFrequency)
	}
	if sched.BufferDays != 5 {
		t.Fatalf("buffer days = %d, want 5", sched.BufferDays)
	}
	if sched.Triggers["content-generation"] != "0 0 12 * * *" {
		t.Fatalf("custom trigger not kept: %q", sched.Triggers["content-generation"])
	}
	if sched.Triggers["optimization"] == "" {
		t.Fatal("unset trigger did not fall back to default")
	}
}

func TestLoadScheduleRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	if err := os.WriteFile(path, []byte("triggers: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSchedule(path); err == nil {
		t.Fatal("expected parse error")
	}
}
