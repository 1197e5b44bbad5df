/*
Package scheduler defers fire-and-forget work to a later time.

Due entries are handed to a dispatch.Dispatcher, so scheduled work gets the
same start, finish and failure logging as anything else run through
FireAndForget, and a failing run never stops the schedule.

	s := scheduler.NewWithConfig(scheduler.Config{Dispatcher: d})
	if err := s.Start(); err != nil {
		return err
	}
	defer func() { <-s.Stop() }()

	// Once, after a delay
	s.ScheduleAfter("Warm Cache", 5*time.Second, warmCache)

	// Every 30 seconds, first run one interval from now
	s.ScheduleRepeating("Flush Metrics", 30*time.Second, flush)

	// Cron, with an optional seconds field or a descriptor
	s.ScheduleCron("Heartbeat", "@every 10s", heartbeat)

Names identify entries: scheduling a name that is already pending fails
until the entry is cancelled. One-time entries are removed once fired.

The scheduler checks for due entries every TickInterval (50ms by default),
which bounds how late an entry can fire. Once an entry has been dispatched it
can no longer be cancelled.
*/
package scheduler
