package pool

import "github.com/utkarsh5026/taskpool/internal/types"

// LaunchPolicy selects when Async starts its computation.
type LaunchPolicy int

const (
	// LaunchAsync starts the computation at once on a new goroutine.
	LaunchAsync LaunchPolicy = iota
	// LaunchDeferred runs the computation in the goroutine of the first Get,
	// GetContext or Take on its handle.
	LaunchDeferred
)

// Spawn runs fn on its own goroutine, outside any pool, and returns a handle
// to its outcome. Panics fail the handle with a *TaskError.
func Spawn[T any](fn func() (T, error)) *Handle[T] {
	f := types.NewFuture[T]()
	if fn == nil {
		_ = f.SetError(ErrNilTask)
		return &Handle[T]{f: f}
	}

	go settle(f, fn)
	return &Handle[T]{f: f}
}

// Async runs fn according to policy and returns a handle to its outcome.
//
// With LaunchDeferred nothing runs until the handle is read; WaitFor and
// Status report StatusDeferred until then, and TryGet and Done never start it.
func Async[T any](policy LaunchPolicy, fn func() (T, error)) *Handle[T] {
	if policy != LaunchDeferred || fn == nil {
		return Spawn(fn)
	}

	f := types.NewDeferredFuture(func(f *types.Future[T]) {
		settle(f, fn)
	})
	return &Handle[T]{f: f}
}

func settle[T any](f *types.Future[T], fn func() (T, error)) {
	var v T
	panicked, err := protect(func() (err error) {
		v, err = fn()
		return err
	})

	switch {
	case panicked != nil:
		panicked.Attempts = 1
		_ = f.SetError(panicked)
	case err != nil:
		_ = f.SetError(&TaskError{Err: err, Attempts: 1})
	default:
		_ = f.SetValue(v)
	}
}
