package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	fgerrors "github.com/vnykmshr/firengo/pkg/common/errors"
	"github.com/vnykmshr/firengo/pkg/common/validation"
	"github.com/vnykmshr/firengo/pkg/dispatch"
	"github.com/vnykmshr/firengo/pkg/logger"
	"github.com/vnykmshr/firengo/pkg/metrics"
)

// Area is the source tag of scheduler log lines.
const Area = "Scheduler"

const maxNameLength = 255

// Entry describes a scheduled task.
type Entry struct {
	Name     string
	RunAt    time.Time
	Interval time.Duration // Zero for one-time and cron tasks
	CronExpr string        // Empty unless scheduled with ScheduleCron
	Created  time.Time
	Runs     int
}

// Scheduler hands named work to a dispatcher at a later time.
type Scheduler interface {
	// Basic scheduling
	Schedule(name string, runAt time.Time, work func() error) error
	ScheduleAfter(name string, delay time.Duration, work func() error) error
	ScheduleRepeating(name string, interval time.Duration, work func() error) error

	// Cron scheduling
	ScheduleCron(name string, expr string, work func() error) error

	// Task management
	Cancel(name string) bool
	CancelAll()
	List() []Entry

	// Lifecycle
	Start() error
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	Dispatcher   *dispatch.Dispatcher // Nil dispatches through the process-wide default
	Location     *time.Location       // For cron scheduling
	TickInterval time.Duration        // How often to check for due tasks (default: 50ms)
	MaxTasks     int                  // Maximum number of scheduled tasks (default: 10000)
	Name         string               // Metrics label (default: "default")
	Metrics      *metrics.Registry
	Logger       *logger.Logger
}

type scheduledTask struct {
	name         string
	work         func() error
	runAt        time.Time
	interval     time.Duration
	cronExpr     string
	cronSchedule cron.Schedule
	created      time.Time
	runs         int
}

type scheduler struct {
	dispatcher   *dispatch.Dispatcher
	location     *time.Location
	tickInterval time.Duration
	maxTasks     int
	name         string
	metrics      *metrics.Registry
	log          *logger.Logger

	mu      sync.RWMutex
	tasks   map[string]*scheduledTask
	done    chan struct{}
	stopped chan struct{}
	running bool
	closed  bool
}

// New creates a scheduler with default configuration.
func New() Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) Scheduler {
	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxTasks := cfg.MaxTasks
	if maxTasks <= 0 {
		maxTasks = 10000
	}

	name := cfg.Name
	if name == "" {
		name = "default"
	}

	return &scheduler{
		dispatcher:   cfg.Dispatcher,
		location:     location,
		tickInterval: tickInterval,
		maxTasks:     maxTasks,
		name:         name,
		metrics:      cfg.Metrics,
		log:          cfg.Logger,
		tasks:        make(map[string]*scheduledTask),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
	}
}

func validateEntry(name string, work func() error) error {
	if err := validation.ValidateNotEmpty("scheduler", "name", name); err != nil {
		return err
	}
	if err := validation.ValidateMaxLength("scheduler", "name", name, maxNameLength); err != nil {
		return err
	}
	return validation.ValidateNotNil("scheduler", "work", work)
}

func (s *scheduler) add(t *scheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.name]; exists {
		return fmt.Errorf("task %q already scheduled, cancel it first or use a different name", t.name)
	}
	if len(s.tasks) >= s.maxTasks {
		return fmt.Errorf("cannot schedule task: maximum number of tasks (%d) reached", s.maxTasks)
	}

	t.created = time.Now()
	s.tasks[t.name] = t

	if s.metrics != nil {
		s.metrics.TasksScheduled.WithLabelValues(s.name).Inc()
	}
	s.logger().Debug(Area, "Scheduled task '%s' for %s", t.name, t.runAt.Format(time.RFC3339))
	return nil
}

func (s *scheduler) Schedule(name string, runAt time.Time, work func() error) error {
	if err := validateEntry(name, work); err != nil {
		return err
	}
	if runAt.IsZero() {
		return fgerrors.NewValidationError("scheduler", "runAt", runAt, "cannot be zero")
	}

	return s.add(&scheduledTask{
		name:  name,
		work:  work,
		runAt: runAt,
	})
}

func (s *scheduler) ScheduleAfter(name string, delay time.Duration, work func() error) error {
	return s.Schedule(name, time.Now().Add(delay), work)
}

func (s *scheduler) ScheduleRepeating(name string, interval time.Duration, work func() error) error {
	if err := validateEntry(name, work); err != nil {
		return err
	}
	if err := validation.ValidatePositiveDuration("scheduler", "interval", interval); err != nil {
		return err
	}

	return s.add(&scheduledTask{
		name:     name,
		work:     work,
		runAt:    time.Now().Add(interval),
		interval: interval,
	})
}

func (s *scheduler) ScheduleCron(name string, expr string, work func() error) error {
	if err := validateEntry(name, work); err != nil {
		return err
	}

	schedule, err := ParseCron(expr)
	if err != nil {
		return err
	}

	runAt := schedule.Next(time.Now().In(s.location))
	if runAt.IsZero() {
		return fgerrors.NewValidationError("scheduler", "cron", expr, "never activates").
			WithHint("check day-of-month and month, e.g. February has no 30th")
	}

	return s.add(&scheduledTask{
		name:         name,
		work:         work,
		runAt:        runAt,
		cronExpr:     expr,
		cronSchedule: schedule,
	})
}

func (s *scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[name]; exists {
		delete(s.tasks, name)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*scheduledTask)
}

func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.tasks))
	for _, t := range s.tasks {
		entries = append(entries, Entry{
			Name:     t.name,
			RunAt:    t.runAt,
			Interval: t.interval,
			CronExpr: t.cronExpr,
			Created:  t.created,
			Runs:     t.runs,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RunAt.Equal(entries[j].RunAt) {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].RunAt.Before(entries[j].RunAt)
	})

	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("cannot start scheduler: %w", fgerrors.ErrClosed)
	}
	if s.running {
		return fmt.Errorf("scheduler already running, call Stop() first")
	}

	s.running = true
	go s.run(time.NewTicker(s.tickInterval))
	return nil
}

// Stop halts the tick loop. Tasks already handed to the dispatcher keep
// running; pending entries are kept but never fire. The returned channel is
// closed once the loop has exited.
func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.stopped
	}
	s.closed = true
	close(s.done)
	if !s.running {
		close(s.stopped)
	}
	s.running = false

	return s.stopped
}

func (s *scheduler) run(ticker *time.Ticker) {
	defer close(s.stopped)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.processDueTasks(now)
		}
	}
}

func (s *scheduler) processDueTasks(now time.Time) {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return
	}

	due := make([]*scheduledTask, 0, len(s.tasks))
	for name, t := range s.tasks {
		if now.Before(t.runAt) {
			continue
		}
		due = append(due, t)
		t.runs++

		switch {
		case t.interval > 0:
			t.runAt = now.Add(t.interval)
		case t.cronSchedule != nil:
			t.runAt = t.cronSchedule.Next(now.In(s.location))
			if t.runAt.IsZero() {
				delete(s.tasks, name)
			}
		default:
			delete(s.tasks, name)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		return due[i].name < due[j].name
	})

	for _, t := range due {
		s.fire(t.name, t.work)
	}
}

func (s *scheduler) fire(name string, work func() error) {
	if s.metrics != nil {
		s.metrics.TasksFired.WithLabelValues(s.name).Inc()
	}
	if s.dispatcher != nil {
		s.dispatcher.FireAndForgetE(name, work)
		return
	}
	dispatch.FireAndForgetE(name, work)
}

func (s *scheduler) logger() *logger.Logger {
	if s.log == nil {
		return logger.Default()
	}
	return s.log
}
