package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/sahajranjan/vidpilot/internal/models"
	"github.com/sahajranjan/vidpilot/internal/repository"
)

// ErrSkipped lets a task body report that this firing decided to do
// nothing (gating). Recorded as a skipped automation event, not a
// failure.
var ErrSkipped = errors.New("task skipped")

// Skip wraps ErrSkipped with the gating reason.
func Skip(reason string) error {
	return fmt.Errorf("%w: %s", ErrSkipped, reason)
}

// TaskFunc is one scheduled task body. Any error or panic is caught at
// the scheduler boundary and logged; it never crashes the process.
type TaskFunc func(ctx context.Context) error

type task struct {
	name     string
	trigger  Trigger
	fn       TaskFunc
	enabled  bool
	running  bool
	nextFire time.Time
	lastRun  time.Time
	lastErr  string
}

// TaskStatus is the observable state of one task.
type TaskStatus struct {
	Name     string    `json:"name"`
	Enabled  bool      `json:"enabled"`
	Running  bool      `json:"running"`
	NextFire time.Time `json:"next_fire"`
	LastRun  time.Time `json:"last_run"`
	LastErr  string    `json:"last_error,omitempty"`
}

// Scheduler owns the task table and fires task bodies when their
// triggers come due. Single process, no cross-task ordering; each
// firing is independent and guarded against overlapping itself.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]*task
	order  []string
	events repository.AutomationEventRepository

	pollInterval time.Duration
	stop         chan struct{}
}

func New(events repository.AutomationEventRepository) *Scheduler {
	return &Scheduler{
		tasks:        map[string]*task{},
		events:       events,
		pollInterval: 30 * time.Second,
	}
}

// Register adds a task to the table. Task names are unique; a second
// registration under the same name is refused.
func (s *Scheduler) Register(name string, trigger Trigger, fn TaskFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[name]; exists {
		return fmt.Errorf("task %q already registered", name)
	}

	s.tasks[name] = &task{
		name:    name,
		trigger: trigger,
		fn:      fn,
		enabled: true,
	}
	s.order = append(s.order, name)
	return nil
}

// Start begins firing tasks. Stop tears the loop down.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	now := time.Now()
	for _, t := range s.tasks {
		t.nextFire = t.trigger.Next(now)
	}
	stop := s.stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				s.tick(ctx, now)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	log.Printf("Scheduler started with %d tasks", len(s.tasks))
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Scheduler) EnableTask(name string) error {
	return s.setEnabled(name, true)
}

func (s *Scheduler) DisableTask(name string) error {
	return s.setEnabled(name, false)
}

func (s *Scheduler) setEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("task %q not registered", name)
	}
	t.enabled = enabled
	return nil
}

// RunNow fires a task immediately, subject to the same in-flight
// guard as scheduled firings.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	t, ok := s.tasks[name]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("task %q not registered", name)
	}
	if t.running {
		s.mu.Unlock()
		return fmt.Errorf("task %q is already running", name)
	}
	t.running = true
	s.mu.Unlock()

	s.runTask(ctx, t)
	return nil
}

// Tasks reports the table for the ops API.
func (s *Scheduler) Tasks() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]TaskStatus, 0, len(s.order))
	for _, name := range s.order {
		t := s.tasks[name]
		statuses = append(statuses, TaskStatus{
			Name:     t.name,
			Enabled:  t.enabled,
			Running:  t.running,
			NextFire: t.nextFire,
			LastRun:  t.lastRun,
			LastErr:  t.lastErr,
		})
	}
	return statuses
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	var due []*task
	for _, name := range s.order {
		t := s.tasks[name]
		if !t.enabled || t.nextFire.After(now) {
			continue
		}
		t.nextFire = t.trigger.Next(now)
		if t.running {
			// Previous firing overran its period; skip this one rather
			// than run the same task twice.
			slog.Info("task still running, skipping firing", "task", t.name)
			continue
		}
		t.running = true
		due = append(due, t)
	}
	s.mu.Unlock()

	for _, t := range due {
		go s.runTask(ctx, t)
	}
}

// runTask executes one firing and records the automation event.
// Caller has already set t.running.
func (s *Scheduler) runTask(ctx context.Context, t *task) {
	started := time.Now()

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		err = t.fn(ctx)
	}()

	event := &models.AutomationEvent{
		TaskName: t.name,
		Status:   models.EventStatusSuccess,
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrSkipped):
		event.Status = models.EventStatusSkipped
		event.Message = err.Error()
	default:
		event.Status = models.EventStatusFailed
		event.Message = err.Error()
		log.Printf("Task %q failed: %v", t.name, err)
	}

	if s.events != nil {
		if _, eventErr := s.events.Create(ctx, event); eventErr != nil {
			slog.Info(eventErr.Error())
		}
	}

	s.mu.Lock()
	t.running = false
	t.lastRun = started
	t.lastErr = event.Message
	s.mu.Unlock()
}
