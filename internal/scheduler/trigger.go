package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron"
)

// Trigger answers the only calendar question the scheduler asks: when
// is the next firing after a given instant.
type Trigger interface {
	Next(after time.Time) time.Time
}

// ParseTrigger turns a cron expression (or @every duration) into a
// Trigger. The scheduler core never sees the expression itself.
func ParseTrigger(spec string) (Trigger, error) {
	schedule, err := cron.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse trigger %q: %w", spec, err)
	}
	return schedule, nil
}

// IntervalTrigger fires at a fixed period. Used in tests and for
// sub-hourly tasks configured without cron syntax.
type IntervalTrigger struct {
	Every time.Duration
}

func (t IntervalTrigger) Next(after time.Time) time.Time {
	return after.Add(t.Every)
}
