package generator

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestCaptionGeneratorBuildsSRT(t *testing.T) {
	job := &Job{
		Dir:        t.TempDir(),
		ScriptText: "Welcome back to the channel.\n\nToday we look at something new.",
	}

	artifact, err := NewCaptionGenerator().Generate(context.Background(), job)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if artifact.Simulated {
		t.Fatal("caption artifact marked simulated")
	}
	if job.CaptionsPath == "" {
		t.Fatal("job captions path not set")
	}

	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("read captions: %v", err)
	}
	srt := string(data)

	if !strings.HasPrefix(srt, "1\n00:00:00,000 --> ") {
		t.Fatalf("first cue malformed:\n%s", srt)
	}
	if !strings.Contains(srt, "\n2\n") {
		t.Fatalf("blank line should not produce a cue, and both sentences should:\n%s", srt)
	}
	if strings.Contains(srt, "\n3\n") {
		t.Fatalf("expected exactly 2 cues:\n%s", srt)
	}
	if !strings.Contains(srt, "Welcome back to the channel.") {
		t.Fatalf("cue text missing:\n%s", srt)
	}
}

func TestCaptionGeneratorRejectsEmptyScript(t *testing.T) {
	job := &Job{Dir: t.TempDir()}
	if _, err := NewCaptionGenerator().Generate(context.Background(), job); err == nil {
		t.Fatal("expected error for empty script")
	}
}

func TestSRTTimestamp(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{1500 * time.Millisecond, "00:00:01,500"},
		{61 * time.Second, "00:01:01,000"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03,000"},
	}
	for _, tc := range cases {
		if got := srtTimestamp(tc.d); got != tc.want {
			t.Errorf("srtTimestamp(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
