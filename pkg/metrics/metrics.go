// Package metrics provides Prometheus instrumentation for firengo components.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "firengo"

// Registry holds all metric instances for firengo components.
type Registry struct {
	// Worker Pool Metrics
	WorkerPoolSize    *prometheus.GaugeVec
	WorkerPoolActive  *prometheus.GaugeVec
	WorkerPoolQueued  *prometheus.GaugeVec
	TasksSubmitted    *prometheus.CounterVec
	TasksExecuted     *prometheus.CounterVec
	TaskPanics        *prometheus.CounterVec
	TaskExecutionTime *prometheus.HistogramVec
	TaskQueueWaitTime *prometheus.HistogramVec

	// Dispatch Metrics
	TasksDispatched *prometheus.CounterVec
	TasksDropped    *prometheus.CounterVec
	TasksSucceeded  *prometheus.CounterVec
	TasksFailed     *prometheus.CounterVec

	// Scheduler Metrics
	TasksScheduled *prometheus.CounterVec
	TasksFired     *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by firengo components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return newRegistry(reg, DefaultNamespace, nil)
}

// FromConfig returns the registry described by cfg, or nil when metrics are
// disabled. A config without registry, namespace or labels maps to
// DefaultRegistry.
func FromConfig(cfg Config) *Registry {
	if !cfg.Enabled {
		return nil
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	if cfg.Registry == nil && ns == DefaultNamespace && len(cfg.Labels) == 0 {
		return DefaultRegistry
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return newRegistry(reg, ns, cfg.Labels)
}

func newRegistry(reg prometheus.Registerer, ns string, labels prometheus.Labels) *Registry {
	counter := func(subsystem, name, help string, labelNames ...string) *prometheus.CounterVec {
		return register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, labelNames))
	}
	gauge := func(subsystem, name, help string, labelNames ...string) *prometheus.GaugeVec {
		return register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, labelNames))
	}
	histogram := func(subsystem, name, help string, labelNames ...string) *prometheus.HistogramVec {
		return register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, labelNames))
	}

	return &Registry{
		WorkerPoolSize:    gauge("workerpool", "size", "Current worker pool size", "pool_name"),
		WorkerPoolActive:  gauge("workerpool", "active_workers", "Number of workers executing a task", "pool_name"),
		WorkerPoolQueued:  gauge("workerpool", "queued_tasks", "Number of queued tasks", "pool_name"),
		TasksSubmitted:    counter("workerpool", "tasks_submitted_total", "Total number of tasks accepted by the pool", "pool_name"),
		TasksExecuted:     counter("workerpool", "tasks_executed_total", "Total number of tasks executed", "pool_name"),
		TaskPanics:        counter("workerpool", "task_panics_total", "Total number of tasks that panicked", "pool_name"),
		TaskExecutionTime: histogram("workerpool", "task_duration_seconds", "Time spent executing tasks", "pool_name"),
		TaskQueueWaitTime: histogram("workerpool", "task_wait_seconds", "Time tasks spent queued before a worker picked them up", "pool_name"),

		TasksDispatched: counter("dispatch", "tasks_dispatched_total", "Total number of fire-and-forget requests handed to a pool", "dispatcher"),
		TasksDropped:    counter("dispatch", "tasks_dropped_total", "Total number of fire-and-forget requests dropped because no pool was available", "dispatcher"),
		TasksSucceeded:  counter("dispatch", "tasks_succeeded_total", "Total number of dispatched tasks that finished successfully", "dispatcher"),
		TasksFailed:     counter("dispatch", "tasks_failed_total", "Total number of dispatched tasks that failed", "dispatcher"),

		TasksScheduled: counter("scheduler", "tasks_scheduled_total", "Total number of tasks scheduled", "scheduler_name"),
		TasksFired:     counter("scheduler", "tasks_fired_total", "Total number of scheduled tasks handed to the dispatcher", "scheduler_name"),
	}
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
