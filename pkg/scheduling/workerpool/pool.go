package workerpool

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// Task represents a unit of work that can be executed by a worker.
// Tasks take no arguments and return nothing; whatever they need is captured
// when they are built, and ownership passes to the pool on submission.
type Task interface {
	Execute()
}

// TaskFunc is a function type that implements the Task interface.
type TaskFunc func()

// Execute implements the Task interface for TaskFunc.
func (f TaskFunc) Execute() {
	f()
}

// Result describes one finished execution. It is delivered to
// Config.OnTaskComplete; the pool keeps no result channel.
type Result struct {
	// Task is the original task that was executed
	Task Task

	// Panicked is true when Execute panicked; Recovered holds the value.
	Panicked  bool
	Recovered any

	// Duration is how long the task took to execute
	Duration time.Duration

	// WorkerID identifies which worker executed the task
	WorkerID int
}

// Pool represents a worker pool that executes tasks on a fixed set of
// goroutines, in submission order.
type Pool interface {
	// Submit appends a task to the queue. It never blocks on capacity.
	// Returns an error if the task is nil or the pool is shutting down.
	Submit(task Task) error

	// Shutdown stops the pool once every queued task has run.
	// No new tasks are accepted after the call; tasks already queued still run.
	// Returns a channel that closes when every worker has exited. Calling
	// Shutdown again returns the same channel.
	Shutdown() <-chan struct{}

	// Size returns the number of workers in the pool.
	Size() int

	// QueueSize returns the current number of queued tasks waiting for execution.
	QueueSize() int

	// ActiveWorkers returns the number of workers currently executing tasks.
	ActiveWorkers() int

	// TotalSubmitted returns the total number of tasks accepted by the pool.
	TotalSubmitted() int64

	// TotalCompleted returns the total number of tasks that finished, panicked or not.
	TotalCompleted() int64
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// WorkerCount is the number of workers in the pool.
	// Values <= 0 are replaced by DefaultWorkerCount().
	WorkerCount int

	// PanicHandler is called when a task panics. The worker survives either way.
	PanicHandler func(task Task, recovered any)

	// OnWorkerStart is called when a worker starts.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker stops.
	OnWorkerStop func(workerID int)

	// OnTaskStart is called before a task begins execution.
	OnTaskStart func(workerID int, task Task)

	// OnTaskComplete is called after a task completes (success or panic).
	OnTaskComplete func(workerID int, result Result)
}

// workerPool implements the Pool interface.
//
// The queue and the stopping flag are guarded by mu; cond is signalled on
// every push and broadcast once on shutdown. Tasks run with mu released.
type workerPool struct {
	config Config

	workers []worker

	mu       sync.Mutex
	cond     *sync.Cond
	queue    *list.List
	stopping bool

	shutdownOnce sync.Once
	done         chan struct{}
	workerWg     sync.WaitGroup

	activeWorkers  atomic.Int32
	totalSubmitted atomic.Int64
	totalCompleted atomic.Int64
}

// worker represents a single worker in the pool.
type worker struct {
	id   int
	pool *workerPool
}

// New creates a new worker pool with the specified number of workers.
func New(workerCount int) Pool {
	return NewWithConfig(Config{
		WorkerCount: workerCount,
	})
}

// NewWithConfig creates a new worker pool with the specified configuration.
// All workers are started before it returns.
func NewWithConfig(config Config) Pool {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultWorkerCount()
	}

	pool := &workerPool{
		config: config,
		queue:  list.New(),
		done:   make(chan struct{}),
	}
	pool.cond = sync.NewCond(&pool.mu)

	pool.workers = make([]worker, config.WorkerCount)
	for i := 0; i < config.WorkerCount; i++ {
		pool.workers[i] = worker{
			id:   i,
			pool: pool,
		}
		pool.workerWg.Add(1)
		go pool.workers[i].run()
	}

	return pool
}
