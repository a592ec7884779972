package scheduler

import (
	"testing"
	"time"
)

func TestParseTriggerCronExpression(t *testing.T) {
	trigger, err := ParseTrigger("0 0 9 * * *")
	if err != nil {
		t.Fatalf("ParseTrigger failed: %v", err)
	}

	after := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	next := trigger.Next(after)
	if next.Hour() != 9 || next.Day() != 3 {
		t.Fatalf("next firing = %v, want 09:00 the next day", next)
	}
}

func TestParseTriggerEveryExpression(t *testing.T) {
	trigger, err := ParseTrigger("@every 10m")
	if err != nil {
		t.Fatalf("ParseTrigger failed: %v", err)
	}

	after := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := trigger.Next(after); !got.Equal(after.Add(10 * time.Minute)) {
		t.Fatalf("next firing = %v, want +10m", got)
	}
}

func TestParseTriggerRejectsGarbage(t *testing.T) {
	if _, err := ParseTrigger("every day at lunch"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestIntervalTrigger(t *testing.T) {
	after := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	trigger := IntervalTrigger{Every: time.Hour}
	if got := trigger.Next(after); !got.Equal(after.Add(time.Hour)) {
		t.Fatalf("next firing = %v, want +1h", got)
	}
}
