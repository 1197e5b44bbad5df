// Command firengo demonstrates fire-and-forget dispatch on the process-wide
// worker pool: a slow task, a debug-only task and a failing task run in the
// background while main carries on, then the pool drains before exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/vnykmshr/firengo/internal/config"
	"github.com/vnykmshr/firengo/pkg/dispatch"
	"github.com/vnykmshr/firengo/pkg/logger"
	"github.com/vnykmshr/firengo/pkg/metrics"
	"github.com/vnykmshr/firengo/pkg/scheduling/scheduler"
)

const area = "Application"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.Flags("firengo")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	path, _ := fs.GetString("config")

	cfg, err := config.LoadWithFlags(path, fs)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)
	defer log.Close()
	logger.SetDefault(log)

	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		log.Debug(area, format, args...)
	}))
	defer undo()
	if err != nil {
		log.Warn(area, "Failed to set GOMAXPROCS: %v", err)
	}

	err = dispatch.Start(dispatch.Options{
		Workers: cfg.Workers,
		Logger:  log,
		Metrics: metrics.Config{Enabled: true},
	})
	if err != nil {
		return err
	}

	log.Info(area, "Main function started. Dispatching tasks...")

	dispatch.FireAndForget("Update User Cache", func() {
		log.Info("Cache", "Updating user cache...")
		time.Sleep(500 * time.Millisecond)
	})

	dispatch.FireAndForget("Debug Info", func() {
		log.Debug("Debug", "This is a detailed debug message for developers.")
	})

	dispatch.FireAndForget("Database Query", func() {
		log.Info("Database", "Performing database query...")
		time.Sleep(time.Second)
	})

	dispatch.FireAndForgetE("Simulate Failure", func() error {
		log.Warn("FailingTask", "This task is about to fail.")
		return errors.New("simulated runtime failure")
	})

	var sched scheduler.Scheduler
	if cfg.HeartbeatCron != "" {
		sched = scheduler.NewWithConfig(scheduler.Config{
			Dispatcher: dispatch.Default(),
			Metrics:    metrics.DefaultRegistry,
			Logger:     log,
		})
		err := sched.ScheduleCron("Heartbeat", cfg.HeartbeatCron, func() error {
			log.Info("Heartbeat", "Still alive")
			return nil
		})
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	log.Info(area, "Main goroutine is continuing with other work...")
	time.Sleep(3 * time.Second)

	if sched != nil {
		<-sched.Stop()
	}

	pool := dispatch.Default().Pool()

	log.Info(area, "Main function is about to exit. Draining the worker pool.")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := dispatch.Shutdown(ctx); err != nil {
		log.Error(area, "Worker pool did not drain in time: %v", err)
	}

	log.Info(area, "Submitted %d tasks, completed %d.", pool.TotalSubmitted(), pool.TotalCompleted())
	return nil
}
