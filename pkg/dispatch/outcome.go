package dispatch

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// ErrUnknownFailure stands in for a panic value that carries no description.
var ErrUnknownFailure = errors.New("unknown failure")

// PanicError is the failure recorded when a task panics with an error,
// a string or a fmt.Stringer.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	switch v := e.Value.(type) {
	case error:
		return v.Error()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Outcome is the contained result of running one named task.
type Outcome struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the task returned without error or panic.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Run invokes work and captures how it ended. Errors and panics both end up
// in Outcome.Err; Run itself never panics because of work.
func Run(name string, work func() error) (out Outcome) {
	start := time.Now()
	out.Name = name

	defer func() {
		if r := recover(); r != nil {
			out.Err = panicError(r)
		}
		out.Duration = time.Since(start)
	}()

	out.Err = work()
	return out
}

func panicError(r any) error {
	switch r.(type) {
	case error, string, fmt.Stringer:
		return &PanicError{Value: r, Stack: debug.Stack()}
	default:
		return ErrUnknownFailure
	}
}
