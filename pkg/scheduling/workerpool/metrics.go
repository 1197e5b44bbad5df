package workerpool

import (
	"sync"
	"time"

	"github.com/vnykmshr/firengo/pkg/metrics"
)

// MetricsPool wraps a worker Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	name     string
	registry *metrics.Registry

	// gaugeMu makes each read-then-set of the gauges atomic, so the last
	// refresh always reflects the latest counts.
	gaugeMu sync.Mutex
}

// NewWithMetrics creates a new worker pool whose activity is exported under
// the pool_name label name. When metricsConfig is disabled the plain pool is
// returned.
func NewWithMetrics(config Config, name string, metricsConfig metrics.Config) Pool {
	registry := metrics.FromConfig(metricsConfig)
	if registry == nil {
		return NewWithConfig(config)
	}

	mp := &MetricsPool{
		name:     name,
		registry: registry,
	}

	// Gauges follow the worker hooks; OnTaskComplete runs after the
	// active count has been decremented.
	onStart := config.OnTaskStart
	config.OnTaskStart = func(workerID int, task Task) {
		mp.updateMetrics()
		if onStart != nil {
			onStart(workerID, task)
		}
	}
	onComplete := config.OnTaskComplete
	config.OnTaskComplete = func(workerID int, result Result) {
		mp.updateMetrics()
		if onComplete != nil {
			onComplete(workerID, result)
		}
	}

	mp.pool = NewWithConfig(config)
	mp.updateMetrics()

	return mp
}

// updateMetrics updates the current state gauges.
func (mp *MetricsPool) updateMetrics() {
	mp.gaugeMu.Lock()
	defer mp.gaugeMu.Unlock()

	mp.registry.WorkerPoolSize.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
	mp.registry.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.ActiveWorkers()))
	mp.registry.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(mp.pool.QueueSize()))
}

// Submit wraps task to record wait and execution time, then submits it.
func (mp *MetricsPool) Submit(task Task) error {
	if task == nil {
		return mp.pool.Submit(nil)
	}

	wrapped := &metricsTask{
		original:   task,
		pool:       mp,
		submitTime: time.Now(),
	}

	err := mp.pool.Submit(wrapped)
	if err == nil {
		mp.registry.TasksSubmitted.WithLabelValues(mp.name).Inc()
	}
	mp.updateMetrics()

	return err
}

// metricsTask wraps a Task to collect execution metrics.
type metricsTask struct {
	original   Task
	pool       *MetricsPool
	submitTime time.Time
}

// Execute runs the original task and records metrics. A panic is counted and
// re-raised so the worker's own recovery still sees it.
func (mt *metricsTask) Execute() {
	start := time.Now()
	r := mt.pool.registry
	name := mt.pool.name

	r.TaskQueueWaitTime.WithLabelValues(name).Observe(start.Sub(mt.submitTime).Seconds())

	defer func() {
		rec := recover()

		r.TaskExecutionTime.WithLabelValues(name).Observe(time.Since(start).Seconds())
		r.TasksExecuted.WithLabelValues(name).Inc()
		if rec != nil {
			r.TaskPanics.WithLabelValues(name).Inc()
		}

		if rec != nil {
			panic(rec)
		}
	}()

	mt.original.Execute()
}

// Shutdown initiates graceful shutdown of the pool.
func (mp *MetricsPool) Shutdown() <-chan struct{} {
	return mp.pool.Shutdown()
}

// Size returns the current number of workers.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueSize returns the current number of queued tasks.
func (mp *MetricsPool) QueueSize() int {
	mp.gaugeMu.Lock()
	defer mp.gaugeMu.Unlock()

	queueSize := mp.pool.QueueSize()
	mp.registry.WorkerPoolQueued.WithLabelValues(mp.name).Set(float64(queueSize))
	return queueSize
}

// ActiveWorkers returns the number of workers currently executing tasks.
func (mp *MetricsPool) ActiveWorkers() int {
	mp.gaugeMu.Lock()
	defer mp.gaugeMu.Unlock()

	activeWorkers := mp.pool.ActiveWorkers()
	mp.registry.WorkerPoolActive.WithLabelValues(mp.name).Set(float64(activeWorkers))
	return activeWorkers
}

// TotalSubmitted returns the total number of tasks submitted.
func (mp *MetricsPool) TotalSubmitted() int64 {
	return mp.pool.TotalSubmitted()
}

// TotalCompleted returns the total number of tasks completed.
func (mp *MetricsPool) TotalCompleted() int64 {
	return mp.pool.TotalCompleted()
}
