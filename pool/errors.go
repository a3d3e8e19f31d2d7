package pool

import (
	"errors"
	"fmt"

	"github.com/utkarsh5026/taskpool/internal/types"
)

var (
	// ErrPoolClosed is returned when a task is submitted after Shutdown has begun.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrInvalidConfig is returned by New when the pool cannot be built as requested.
	ErrInvalidConfig = errors.New("invalid pool configuration")

	// ErrNilTask is returned when a nil function is submitted.
	ErrNilTask = errors.New("nil task submitted")

	// ErrShutdownTimeout is returned by ShutdownContext when the context ends
	// before every worker has exited.
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")

	// ErrAlreadySatisfied is returned when a Promise is fulfilled twice.
	ErrAlreadySatisfied = types.ErrAlreadySatisfied

	// ErrAlreadyConsumed is returned by Handle.Take after the first call.
	ErrAlreadyConsumed = types.ErrAlreadyConsumed

	// ErrNilFailure is what a handle reports when its promise failed with a nil error.
	ErrNilFailure = types.ErrNilFailure
)

// TaskError is the failure a Handle reports when its task returned an error
// or panicked. The worker that ran the task is unaffected.
//
// Err is the error returned by the task, or for a panic the panic value if it
// was an error and a formatted description of it otherwise, so errors.Is and
// errors.As reach the underlying cause.
//
// Attempts counts the runs of the task. It is zero when the task never ran,
// for example when the rate limiter wait was cut short by the pool context.
type TaskError struct {
	Err      error
	Panic    any
	Stack    []byte
	Attempts int
}

func (e *TaskError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("task panicked: %v", e.Panic)
	}
	return fmt.Sprintf("task failed: %v", e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// Panicked reports whether the task failed by panicking.
func (e *TaskError) Panicked() bool {
	return e.Panic != nil
}
