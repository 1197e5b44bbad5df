package scheduler

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/firengo/internal/testutil"
	fgerrors "github.com/vnykmshr/firengo/pkg/common/errors"
	"github.com/vnykmshr/firengo/pkg/dispatch"
	"github.com/vnykmshr/firengo/pkg/logger"
	"github.com/vnykmshr/firengo/pkg/metrics"
	"github.com/vnykmshr/firengo/pkg/scheduling/workerpool"
)

type fixture struct {
	s      Scheduler
	d      *dispatch.Dispatcher
	out    *testutil.MockWriter
	errOut *testutil.MockWriter
}

// newFixture starts a scheduler on a two-worker dispatcher and registers
// cleanup that stops the scheduler before draining the pool.
func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	out, errOut := testutil.NewMockWriter(), testutil.NewMockWriter()
	log := logger.New(logger.Config{Out: out, ErrOut: errOut})
	d := dispatch.New(workerpool.New(2), dispatch.WithLogger(log))

	cfg.Dispatcher = d
	cfg.Logger = log
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 5 * time.Millisecond
	}

	s := NewWithConfig(cfg)
	testutil.AssertNoError(t, s.Start())

	t.Cleanup(func() {
		testutil.WaitClosed(t, s.Stop(), testutil.TestTimeout)
		testutil.WaitClosed(t, d.Pool().Shutdown(), testutil.TestTimeout)
	})

	return &fixture{s: s, d: d, out: out, errOut: errOut}
}

func counter(n *int32) func() error {
	return func() error {
		atomic.AddInt32(n, 1)
		return nil
	}
}

func TestScheduleAndScheduleAfter(t *testing.T) {
	f := newFixture(t, Config{})

	var executed int32
	testutil.AssertNoError(t, f.s.Schedule("now", time.Now(), counter(&executed)))
	testutil.AssertNoError(t, f.s.ScheduleAfter("later", 30*time.Millisecond, counter(&executed)))

	testutil.WaitForInt32(t, &executed, 2, time.Second)
	testutil.AssertEventually(t, func() bool { return len(f.s.List()) == 0 })
}

func TestScheduledWorkIsLogged(t *testing.T) {
	f := newFixture(t, Config{})

	var executed int32
	testutil.AssertNoError(t, f.s.ScheduleAfter("Update User Cache", 0, counter(&executed)))

	testutil.WaitForInt32(t, &executed, 1, time.Second)
	testutil.AssertEventually(t, func() bool {
		return f.out.Contains("Finished task: 'Update User Cache'")
	})
}

func TestScheduleRepeating(t *testing.T) {
	f := newFixture(t, Config{})

	var executed int32
	testutil.AssertNoError(t, f.s.ScheduleRepeating("repeat", 20*time.Millisecond, counter(&executed)))

	testutil.WaitForInt32(t, &executed, 3, time.Second)

	entries := f.s.List()
	testutil.AssertEqual(t, len(entries), 1)
	testutil.AssertEqual(t, entries[0].Interval, 20*time.Millisecond)
	if entries[0].Runs < 3 {
		t.Errorf("runs = %d, want at least 3", entries[0].Runs)
	}
}

func TestFailingRunDoesNotStopSchedule(t *testing.T) {
	f := newFixture(t, Config{})

	var runs int32
	testutil.AssertNoError(t, f.s.ScheduleRepeating("flaky", 10*time.Millisecond, func() error {
		if atomic.AddInt32(&runs, 1) == 1 {
			panic("first run fails")
		}
		return nil
	}))

	testutil.WaitForInt32(t, &runs, 3, time.Second)
	testutil.AssertEqual(t, f.errOut.Contains("Task 'flaky' failed: first run fails"), true)
}

func TestScheduleCron(t *testing.T) {
	f := newFixture(t, Config{})

	var executed int32
	testutil.AssertNoError(t, f.s.ScheduleCron("every-second", "* * * * * *", counter(&executed)))

	entries := f.s.List()
	testutil.AssertEqual(t, len(entries), 1)
	testutil.AssertEqual(t, entries[0].CronExpr, "* * * * * *")

	testutil.WaitForInt32(t, &executed, 1, 3*time.Second)
}

func TestScheduleValidation(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	noop := func() error { return nil }

	tests := []struct {
		name string
		err  error
	}{
		{"empty name", s.ScheduleAfter("", time.Second, noop)},
		{"long name", s.ScheduleAfter(strings.Repeat("x", 256), time.Second, noop)},
		{"nil work", s.ScheduleAfter("nil", time.Second, nil)},
		{"zero time", s.Schedule("zero", time.Time{}, noop)},
		{"zero interval", s.ScheduleRepeating("zero", 0, noop)},
		{"empty cron", s.ScheduleCron("cron", "", noop)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !fgerrors.IsValidationError(tt.err) {
				t.Errorf("got %v, want a validation error", tt.err)
			}
		})
	}

	testutil.AssertError(t, s.ScheduleCron("bad", "not a cron", noop))
	testutil.AssertEqual(t, len(s.List()), 0)
}

func TestDuplicateName(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	noop := func() error { return nil }
	testutil.AssertNoError(t, s.ScheduleAfter("report", time.Hour, noop))
	testutil.AssertError(t, s.ScheduleAfter("report", time.Hour, noop))

	testutil.AssertEqual(t, s.Cancel("report"), true)
	testutil.AssertNoError(t, s.ScheduleAfter("report", time.Hour, noop))
}

func TestMaxTasks(t *testing.T) {
	s := NewWithConfig(Config{MaxTasks: 2})
	defer func() { <-s.Stop() }()

	noop := func() error { return nil }
	testutil.AssertNoError(t, s.ScheduleAfter("a", time.Hour, noop))
	testutil.AssertNoError(t, s.ScheduleAfter("b", time.Hour, noop))
	testutil.AssertError(t, s.ScheduleAfter("c", time.Hour, noop))
}

func TestCancel(t *testing.T) {
	f := newFixture(t, Config{})

	var executed int32
	testutil.AssertNoError(t, f.s.ScheduleAfter("cancelled", 50*time.Millisecond, counter(&executed)))
	testutil.AssertEqual(t, f.s.Cancel("cancelled"), true)
	testutil.AssertEqual(t, f.s.Cancel("cancelled"), false)

	time.Sleep(100 * time.Millisecond)
	testutil.AssertEqual(t, atomic.LoadInt32(&executed), int32(0))
}

func TestCancelAllAndList(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	noop := func() error { return nil }
	testutil.AssertNoError(t, s.ScheduleAfter("second", 2*time.Hour, noop))
	testutil.AssertNoError(t, s.ScheduleAfter("first", time.Hour, noop))
	testutil.AssertNoError(t, s.ScheduleCron("cron", "@daily", noop))

	entries := s.List()
	testutil.AssertEqual(t, len(entries), 3)
	if entries[0].RunAt.After(entries[1].RunAt) || entries[1].RunAt.After(entries[2].RunAt) {
		t.Error("List should be ordered by next run time")
	}

	s.CancelAll()
	testutil.AssertEqual(t, len(s.List()), 0)
}

func TestStartStop(t *testing.T) {
	s := New()

	testutil.AssertNoError(t, s.Start())
	testutil.AssertError(t, s.Start())

	testutil.WaitClosed(t, s.Stop(), time.Second)
	testutil.WaitClosed(t, s.Stop(), time.Second)

	if err := s.Start(); !errors.Is(err, fgerrors.ErrClosed) {
		t.Errorf("got %v, want ErrClosed", err)
	}
}

func TestStopBeforeStart(t *testing.T) {
	s := New()
	testutil.WaitClosed(t, s.Stop(), time.Second)
}

func TestSchedulerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg)
	f := newFixture(t, Config{Metrics: m, Name: "jobs"})

	var executed int32
	testutil.AssertNoError(t, f.s.ScheduleAfter("one", 0, counter(&executed)))
	testutil.AssertNoError(t, f.s.ScheduleAfter("two", 0, counter(&executed)))
	testutil.WaitForInt32(t, &executed, 2, time.Second)

	testutil.AssertEqual(t, promtest.ToFloat64(m.TasksScheduled.WithLabelValues("jobs")), 2.0)
	testutil.AssertEqual(t, promtest.ToFloat64(m.TasksFired.WithLabelValues("jobs")), 2.0)
}

func TestScheduleCronNeverActivates(t *testing.T) {
	s := New()
	defer func() { <-s.Stop() }()

	err := s.ScheduleCron("never", "0 0 30 2 *", func() error { return nil })
	if !fgerrors.IsValidationError(err) {
		t.Errorf("got %v, want a validation error", err)
	}
	testutil.AssertEqual(t, len(s.List()), 0)
}

// endingSchedule has no further activations.
type endingSchedule struct{}

func (endingSchedule) Next(time.Time) time.Time { return time.Time{} }

func TestCronEntryDroppedWhenScheduleEnds(t *testing.T) {
	log := logger.New(logger.Config{Out: testutil.NewMockWriter(), ErrOut: testutil.NewMockWriter()})
	d := dispatch.New(workerpool.New(1), dispatch.WithLogger(log))
	s := NewWithConfig(Config{Dispatcher: d, Logger: log}).(*scheduler)

	var executed int32
	now := time.Now()
	s.tasks["ending"] = &scheduledTask{
		name:         "ending",
		work:         counter(&executed),
		runAt:        now.Add(-time.Second),
		cronExpr:     "ending",
		cronSchedule: endingSchedule{},
	}

	s.processDueTasks(now)
	s.processDueTasks(now.Add(time.Second))
	testutil.WaitClosed(t, d.Pool().Shutdown(), testutil.TestTimeout)
	<-s.Stop()

	testutil.AssertEqual(t, atomic.LoadInt32(&executed), int32(1))
	testutil.AssertEqual(t, len(s.List()), 0)
}
