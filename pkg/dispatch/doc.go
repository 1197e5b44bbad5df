/*
Package dispatch runs named units of work on a worker pool without waiting
for them.

Each task is wrapped so that its start, its completion and any failure are
logged under the TaskRunner source tag. A task that returns an error or
panics is contained: the failure is logged and the worker moves on to the
next task.

	d := dispatch.New(workerpool.New(4))
	d.FireAndForget("Update User Cache", func() {
		refreshCache()
	})
	<-d.Pool().Shutdown()

A process-wide dispatcher is available through the package-level functions.
It is started lazily on first use, or explicitly with Start, and must be shut
down by the program before exit:

	dispatch.FireAndForget("Send Report", sendReport)
	...
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = dispatch.Shutdown(ctx)

After Shutdown, FireAndForget logs an error and drops the task. Work is
never run on the caller's goroutine as a fallback.
*/
package dispatch
