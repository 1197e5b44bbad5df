package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	fgerrors "github.com/vnykmshr/firengo/pkg/common/errors"
	"github.com/vnykmshr/firengo/pkg/logger"
	"github.com/vnykmshr/firengo/pkg/metrics"
	"github.com/vnykmshr/firengo/pkg/scheduling/workerpool"
)

// ManagerArea is the source tag of the default pool's lifecycle lines.
const ManagerArea = "PoolManager"

// Options configures the process-wide default dispatcher.
type Options struct {
	// Workers is the pool size. Zero or negative means DefaultWorkerCount.
	Workers int

	// Logger receives all lifecycle and task lines. Nil means logger.Default.
	Logger *logger.Logger

	// Metrics exports pool and dispatch metrics when enabled.
	Metrics metrics.Config
}

// ErrAlreadyStarted is returned by Start when the default dispatcher is
// already running.
var ErrAlreadyStarted = errors.New("default dispatcher already started")

type state int

const (
	stateIdle state = iota
	stateRunning
	stateClosed
)

var std struct {
	mu    sync.Mutex
	state state
	d     *Dispatcher
	log   *logger.Logger
}

// Start builds the default pool and dispatcher. It fails if the default is
// already running or has been shut down.
func Start(opts Options) error {
	std.mu.Lock()
	defer std.mu.Unlock()

	switch std.state {
	case stateRunning:
		return ErrAlreadyStarted
	case stateClosed:
		return fmt.Errorf("cannot start default dispatcher: %w", fgerrors.ErrClosed)
	}

	startLocked(opts)
	return nil
}

func startLocked(opts Options) {
	workers := opts.Workers
	if workers <= 0 {
		workers = workerpool.DefaultWorkerCount()
	}

	pool := workerpool.NewWithMetrics(workerpool.Config{WorkerCount: workers}, "default", opts.Metrics)
	std.log = opts.Logger
	std.d = New(pool,
		WithLogger(opts.Logger),
		WithMetrics(metrics.FromConfig(opts.Metrics)),
	)
	std.state = stateRunning

	std.d.logger().Info(ManagerArea, "Automatic worker pool initialized with %d workers.", pool.Size())
}

// Default returns the process-wide dispatcher, starting it with zero Options
// on first use. After Shutdown it returns nil; calling FireAndForget on the
// nil dispatcher logs and drops.
func Default() *Dispatcher {
	std.mu.Lock()
	defer std.mu.Unlock()

	if std.state == stateIdle {
		startLocked(Options{})
	}
	return std.d
}

// FireAndForget runs work on the default dispatcher.
func FireAndForget(name string, work func()) {
	Default().FireAndForget(name, work)
}

// FireAndForgetE runs work on the default dispatcher.
func FireAndForgetE(name string, work func() error) {
	Default().FireAndForgetE(name, work)
}

// Shutdown stops the default pool after every queued task has run. It
// returns ctx.Err() if ctx ends first; the workers then keep draining in the
// background. The default is closed either way and later FireAndForget calls
// are dropped. Shutdown is idempotent.
func Shutdown(ctx context.Context) error {
	std.mu.Lock()
	d, lg, prev := std.d, std.log, std.state
	std.d = nil
	std.state = stateClosed
	std.mu.Unlock()

	if prev != stateRunning {
		return nil
	}
	if lg == nil {
		lg = logger.Default()
	}

	lg.Info(ManagerArea, "Automatic worker pool shutting down...")

	select {
	case <-d.Pool().Shutdown():
		lg.Info(ManagerArea, "Automatic worker pool has been shut down.")
		return nil
	case <-ctx.Done():
		lg.Warn(ManagerArea, "Automatic worker pool shutdown interrupted with %d tasks queued: %v", d.Pool().QueueSize(), ctx.Err())
		return ctx.Err()
	}
}
