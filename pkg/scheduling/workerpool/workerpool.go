package workerpool

import (
	"fmt"
	"time"

	fgerrors "github.com/vnykmshr/firengo/pkg/common/errors"
	"github.com/vnykmshr/firengo/pkg/common/validation"
)

// Submit adds a task to the tail of the queue and wakes one idle worker.
func (p *workerPool) Submit(task Task) error {
	if err := validation.ValidateNotNil("workerpool", "task", task); err != nil {
		return err
	}

	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		return fmt.Errorf("cannot submit task: worker pool has been shut down: %w", fgerrors.ErrClosed)
	}
	p.queue.PushBack(task)
	p.totalSubmitted.Add(1)
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

// Shutdown requests stop, wakes every idle worker and returns a channel that
// closes once all workers have drained the queue and exited.
func (p *workerPool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.stopping = true
		p.mu.Unlock()

		p.cond.Broadcast()

		go func() {
			p.workerWg.Wait()
			close(p.done)
		}()
	})

	return p.done
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.config.WorkerCount
}

// QueueSize returns the current number of queued tasks waiting for execution.
func (p *workerPool) QueueSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (p *workerPool) ActiveWorkers() int {
	return int(p.activeWorkers.Load())
}

// TotalSubmitted returns the total number of tasks submitted to the pool.
func (p *workerPool) TotalSubmitted() int64 {
	return p.totalSubmitted.Load()
}

// TotalCompleted returns the total number of tasks completed by the pool.
func (p *workerPool) TotalCompleted() int64 {
	return p.totalCompleted.Load()
}

// next blocks until a task is available or stop was requested on an empty
// queue. The second result is false when the worker should exit.
func (p *workerPool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.Len() == 0 && !p.stopping {
		p.cond.Wait()
	}

	front := p.queue.Front()
	if front == nil {
		return nil, false
	}
	p.queue.Remove(front)
	p.activeWorkers.Add(1)
	return front.Value.(Task), true
}

// run is the main loop for a worker.
func (w *worker) run() {
	defer w.pool.workerWg.Done()

	if cb := w.pool.config.OnWorkerStart; cb != nil {
		cb(w.id)
	}
	if cb := w.pool.config.OnWorkerStop; cb != nil {
		defer cb(w.id)
	}

	for {
		task, ok := w.pool.next()
		if !ok {
			return
		}
		w.executeTask(task)
	}
}

// executeTask runs a single task outside the pool lock. A panic is recovered
// so that the worker goes back to waiting.
func (w *worker) executeTask(task Task) {
	cfg := &w.pool.config
	start := time.Now()
	result := Result{
		Task:     task,
		WorkerID: w.id,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Panicked = true
			result.Recovered = r
			if cfg.PanicHandler != nil {
				cfg.PanicHandler(task, r)
			}
		}

		result.Duration = time.Since(start)
		w.pool.activeWorkers.Add(-1)
		w.pool.totalCompleted.Add(1)

		if cfg.OnTaskComplete != nil {
			cfg.OnTaskComplete(w.id, result)
		}
	}()

	if cfg.OnTaskStart != nil {
		cfg.OnTaskStart(w.id, task)
	}

	task.Execute()
}
