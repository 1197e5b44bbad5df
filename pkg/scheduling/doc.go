/*
Package scheduling groups the execution primitives behind firengo.

  - workerpool: Fixed worker pool with an unbounded FIFO queue
  - scheduler: Time-based and cron-driven dispatch

Worker Pool:

	pool := workerpool.New(4)
	defer func() { <-pool.Shutdown() }()

	pool.Submit(workerpool.TaskFunc(func() {
		// Do work
	}))

Task Scheduler:

	s := scheduler.NewWithConfig(scheduler.Config{Dispatcher: d})
	s.Start()
	defer func() { <-s.Stop() }()

	s.ScheduleAfter("warm-up", time.Minute, warmUp)
	s.ScheduleCron("report", "0 9 * * MON-FRI", report) // Weekdays at 9 AM

All scheduling components are safe for concurrent use.
*/
package scheduling
