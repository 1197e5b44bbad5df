package dispatch

import (
	"errors"

	fgerrors "github.com/vnykmshr/firengo/pkg/common/errors"
	"github.com/vnykmshr/firengo/pkg/logger"
	"github.com/vnykmshr/firengo/pkg/metrics"
	"github.com/vnykmshr/firengo/pkg/scheduling/workerpool"
)

// Area is the source tag of every line the dispatcher logs.
const Area = "TaskRunner"

// Dispatcher names, logs and contains fire-and-forget tasks before handing
// them to a worker pool.
type Dispatcher struct {
	pool     workerpool.Pool
	log      *logger.Logger
	metrics  *metrics.Registry
	name     string
	observer func(Outcome)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Without it the dispatcher logs through
// logger.Default at the time of each call.
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithMetrics records dispatch counters in r. A nil registry disables them.
func WithMetrics(r *metrics.Registry) Option {
	return func(d *Dispatcher) {
		d.metrics = r
	}
}

// WithName sets the dispatcher label used in metrics. Defaults to "default".
func WithName(name string) Option {
	return func(d *Dispatcher) {
		d.name = name
	}
}

// WithObserver registers fn to receive the outcome of every executed task.
// fn runs on the worker goroutine after the outcome has been logged.
func WithObserver(fn func(Outcome)) Option {
	return func(d *Dispatcher) {
		d.observer = fn
	}
}

// New creates a Dispatcher that submits to pool. A nil pool yields a
// dispatcher that logs and drops every request.
func New(pool workerpool.Pool, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pool: pool,
		name: "default",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Pool returns the pool tasks are submitted to.
func (d *Dispatcher) Pool() workerpool.Pool {
	if d == nil {
		return nil
	}
	return d.pool
}

// FireAndForget runs work asynchronously on the pool under the given name.
// It returns as soon as the task is queued. When no pool is available the
// request is logged and dropped; work is never run on the caller's goroutine.
func (d *Dispatcher) FireAndForget(name string, work func()) {
	if work == nil {
		d.FireAndForgetE(name, nil)
		return
	}
	d.FireAndForgetE(name, func() error {
		work()
		return nil
	})
}

// FireAndForgetE is FireAndForget for work that reports failure by
// returning an error.
func (d *Dispatcher) FireAndForgetE(name string, work func() error) {
	lg := d.logger()

	if d == nil || d.pool == nil {
		lg.Error(Area, "FireAndForget called but worker pool is not available, dropping task '%s': %v", name, fgerrors.ErrUnavailable)
		d.countDropped()
		return
	}
	if work == nil {
		lg.Error(Area, "FireAndForget called without work for task '%s'", name)
		d.countDropped()
		return
	}

	err := d.pool.Submit(workerpool.TaskFunc(func() {
		d.execute(name, work)
	}))
	if err != nil {
		lg.Error(Area, "FireAndForget called but worker pool is not available, dropping task '%s': %v", name, err)
		d.countDropped()
		return
	}

	if d.metrics != nil {
		d.metrics.TasksDispatched.WithLabelValues(d.name).Inc()
	}
}

// execute is the wrapped unit that runs on a worker.
func (d *Dispatcher) execute(name string, work func() error) {
	lg := d.logger()
	lg.Info(Area, "Starting task: '%s'", name)

	out := Run(name, work)

	switch {
	case out.Succeeded():
		lg.Info(Area, "Finished task: '%s'", name)
	case errors.Is(out.Err, ErrUnknownFailure):
		lg.Error(Area, "Unknown failure caught in task '%s'", name)
	default:
		lg.Error(Area, "Task '%s' failed: %v", name, out.Err)
	}

	if d.metrics != nil {
		if out.Succeeded() {
			d.metrics.TasksSucceeded.WithLabelValues(d.name).Inc()
		} else {
			d.metrics.TasksFailed.WithLabelValues(d.name).Inc()
		}
	}

	if d.observer != nil {
		d.observer(out)
	}
}

func (d *Dispatcher) logger() *logger.Logger {
	if d == nil || d.log == nil {
		return logger.Default()
	}
	return d.log
}

func (d *Dispatcher) countDropped() {
	if d == nil || d.metrics == nil {
		return
	}
	d.metrics.TasksDropped.WithLabelValues(d.name).Inc()
}
