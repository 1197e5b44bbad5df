// Package logger provides the leveled console logger used around every
// fire-and-forget task.
//
// Each call takes a severity, a short source tag (the "area") and a
// printf-style message:
//
//	logger.Info("TaskRunner", "Starting task: '%s'", name)
//
// Lines are rendered in full before being written, so concurrent callers
// never interleave within a line. Debug, info and warning lines go to stdout,
// error lines to stderr.
//
// Debug lines are dropped unless debug logging is enabled, either by building
// with the firengo_debug tag or through Config.Debug. When debug logging and
// Config.StackTrace are both on, error lines are followed by the stack of
// the logging goroutine.
//
// Config.File adds a size-rotated log file next to the console output.
package logger
