/*
Package workerpool provides a fixed-size worker pool with an unbounded FIFO
task queue and a drain-then-stop shutdown.

A pool owns a fixed number of worker goroutines that take tasks from a shared
queue in submission order. Submission never blocks: the queue grows as needed.
Shutdown stops accepting new tasks, lets the workers finish everything already
queued, and reports completion through a channel.

Basic usage:

	pool := workerpool.New(4)
	defer func() { <-pool.Shutdown() }()

	err := pool.Submit(workerpool.TaskFunc(func() {
		// Do work
	}))
	if err != nil {
		log.Printf("Failed to submit: %v", err)
	}

Task Interface:

Tasks implement a simple interface:

	type Task interface {
		Execute()
	}

TaskFunc adapts a plain func(). Tasks return nothing and the pool hands
nothing back to the submitter: this is a fire-and-forget pool. Use the
dispatch package for named tasks with logging and error reporting.

Worker Count:

A WorkerCount of zero or less is replaced by DefaultWorkerCount, which uses
the number of logical CPUs (capped by GOMAXPROCS) and falls back to
FallbackWorkerCount when detection fails.

Ordering:

  - Tasks leave the queue in the order they entered it.
  - With one worker, tasks also complete in that order.
  - With several workers, completion order is not guaranteed.
  - Tasks submitted concurrently from different goroutines are ordered by
    whichever Submit takes the queue lock first.

Panics:

A panicking task is recovered by its worker, reported to Config.PanicHandler
and Config.OnTaskComplete, and the worker goes back to waiting. Tasks are
never retried or re-queued.

Graceful Shutdown:

	done := pool.Shutdown()
	<-done // every task queued before Shutdown has run

Submit returns an error wrapping errors.ErrClosed once Shutdown has been
called. A task that is already running delays shutdown until it returns;
there is no cancellation.

Lifecycle Callbacks:

	config := workerpool.Config{
		WorkerCount: 4,
		OnWorkerStart: func(workerID int) {
			log.Printf("Worker %d started", workerID)
		},
		OnTaskComplete: func(workerID int, result workerpool.Result) {
			log.Printf("Worker %d completed task in %v", workerID, result.Duration)
		},
	}
	pool := workerpool.NewWithConfig(config)

Callbacks run on the worker goroutine and must not panic.

Metrics:

NewWithMetrics wraps a pool so that submissions, queue depth, active workers,
execution and queue-wait times, and panics are exported through the metrics
package. Callbacks of a metrics pool receive the wrapping task.

Thread Safety:

All pool operations are safe for concurrent use from multiple goroutines.
The queue lock is held only while a task is pushed or popped, never while a
task runs.
*/
package workerpool
