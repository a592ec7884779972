package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schedule holds the calendar side of automation: when each task fires
// and how often new content should be produced.
type Schedule struct {
	Triggers         map[string]string `yaml:"triggers"`
	PostingFrequency string            `yaml:"posting_frequency"`
	BufferDays       int               `yaml:"buffer_days"`
}

const (
	FrequencyDaily     = "daily"
	FrequencyEveryTwo  = "every-2-days"
	FrequencyThreeWeek = "3-per-week"
	FrequencyWeekly    = "weekly"
)

var defaultTriggers = map[string]string{
	"content-generation":  "0 0 9 * * *",
	"queue-drain":         "@every 00h10m00s",
	"analytics":           "0 30 6 * * *",
	"strategy-review":     "0 0 7 * * 1",
	"optimization":        "0 0 3 * * *",
	"storage-maintenance": "0 0 4 * * 0",
	"token-refresh":       "@every 00h10m00s",
}

func LoadSchedule(path string) (*Schedule, error) {
	sched := &Schedule{
		Triggers:         map[string]string{},
		PostingFrequency: FrequencyDaily,
		BufferDays:       3,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			sched.Triggers = defaultTriggers
			return sched, nil
		}
		return nil, fmt.Errorf("read schedule file: %w", err)
	}

	if err := yaml.Unmarshal(data, sched); err != nil {
		return nil, fmt.Errorf("parse schedule file: %w", err)
	}

	for name, spec := range defaultTriggers {
		if _, ok := sched.Triggers[name]; !ok {
			sched.Triggers[name] = spec
		}
	}
	if sched.BufferDays <= 0 {
		sched.BufferDays = 3
	}
	if sched.PostingFrequency == "" {
		sched.PostingFrequency = FrequencyDaily
	}

	return sched, nil
}
