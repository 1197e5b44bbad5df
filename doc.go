/*
Package firengo provides fire-and-forget background execution on a
process-wide, fixed-size worker pool, with uniform lifecycle logging around
every task.

Task Execution (pkg/scheduling):
  - workerpool: Fixed workers over an unbounded FIFO queue, drain-then-stop shutdown
  - scheduler: Deferred, repeating and cron-driven dispatch

Dispatch (pkg/dispatch):
  - FireAndForget: Named tasks with start, finish and failure logging
  - Default dispatcher: Lazily started process-wide pool with explicit teardown

Support:
  - logger: Leveled, source-tagged, line-atomic logging
  - metrics: Prometheus collectors for pools, dispatch and scheduling

Example usage:

	import "github.com/vnykmshr/firengo/pkg/dispatch"

	dispatch.FireAndForget("Update User Cache", func() {
		refreshCache()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = dispatch.Shutdown(ctx)
*/
package firengo
