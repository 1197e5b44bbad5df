// Package metrics provides Prometheus instrumentation for firengo components.
//
// # Overview
//
// The metrics package provides instrumentation for:
//   - Worker pools (pool size, active workers, queued tasks, executions, panics)
//   - The dispatcher (dispatched, dropped, succeeded and failed tasks)
//   - The scheduler (scheduled and fired tasks)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	pool := workerpool.NewWithMetrics(workerpool.Config{}, "tasks", metrics.DefaultConfig())
//	d := dispatch.New(pool, dispatch.WithMetrics(metrics.DefaultRegistry))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	reg := prometheus.NewRegistry()
//	r := metrics.FromConfig(metrics.Config{Enabled: true, Registry: reg})
//
// Registering the same registry twice on one registerer reuses the
// collectors from the first registration.
//
// # Available Metrics
//
//   - firengo_workerpool_size
//   - firengo_workerpool_active_workers
//   - firengo_workerpool_queued_tasks
//   - firengo_workerpool_tasks_submitted_total
//   - firengo_workerpool_tasks_executed_total
//   - firengo_workerpool_task_panics_total
//   - firengo_workerpool_task_duration_seconds
//   - firengo_workerpool_task_wait_seconds
//   - firengo_dispatch_tasks_dispatched_total
//   - firengo_dispatch_tasks_dropped_total
//   - firengo_dispatch_tasks_succeeded_total
//   - firengo_dispatch_tasks_failed_total
//   - firengo_scheduler_tasks_scheduled_total
//   - firengo_scheduler_tasks_fired_total
//
// Task names are never used as label values; the labels identify the pool,
// dispatcher or scheduler instance.
package metrics
