package types

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Future is a write-once cell holding the eventual outcome of a computation.
//
// It starts pending and moves exactly once to ready (a value) or failed (an
// error). The transition happens under mu and is published by closing done,
// so every reader that observes done also observes the stored result. After
// the transition the result is never modified again and can be read without
// the lock.
type Future[T any] struct {
	mu     sync.Mutex
	status Status
	result Result[T]
	taken  bool
	done   chan struct{}

	// lazy is the deferred computation, nil for eagerly started futures.
	lazy     func()
	lazyOnce sync.Once
	started  atomic.Bool
}

// NewFuture creates a pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// NewDeferredFuture creates a pending future whose computation runs in the
// goroutine of the first Get, GetWithContext or Take call. run receives the
// future and is expected to satisfy it.
func NewDeferredFuture[T any](run func(f *Future[T])) *Future[T] {
	f := NewFuture[T]()
	f.lazy = func() { run(f) }
	return f
}

// SetValue moves the future to ready with v.
// It returns ErrAlreadySatisfied if the future has already transitioned.
func (f *Future[T]) SetValue(v T) error {
	return f.resolve(StatusReady, Result[T]{Value: v})
}

// SetError moves the future to failed with err.
// It returns ErrAlreadySatisfied if the future has already transitioned.
// A nil err is stored as ErrNilFailure so a failed future always has an error.
func (f *Future[T]) SetError(err error) error {
	if err == nil {
		err = ErrNilFailure
	}
	return f.resolve(StatusFailed, Result[T]{Err: err})
}

func (f *Future[T]) resolve(status Status, r Result[T]) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != StatusPending {
		return ErrAlreadySatisfied
	}

	f.status = status
	f.result = r
	close(f.done)
	return nil
}

// Get blocks until the future is satisfied and returns its value and error.
// Every call returns the same outcome.
func (f *Future[T]) Get() (T, error) {
	f.launch()
	<-f.done
	return f.result.Value, f.result.Err
}

// GetWithContext is like Get but gives up when ctx is done, returning ctx.Err().
// Giving up leaves the future untouched. An outcome that is already available
// always wins over a finished ctx. A deferred computation started here runs to
// completion in the caller's goroutine regardless of ctx.
func (f *Future[T]) GetWithContext(ctx context.Context) (T, error) {
	if v, err, ok := f.TryGet(); ok {
		return v, err
	}

	f.launch()
	if v, err, ok := f.TryGet(); ok {
		return v, err
	}

	select {
	case <-f.done:
		return f.result.Value, f.result.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Take returns the outcome like Get, but only once; later calls return
// ErrAlreadyConsumed.
func (f *Future[T]) Take() (T, error) {
	f.launch()
	<-f.done

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.taken {
		var zero T
		return zero, ErrAlreadyConsumed
	}
	f.taken = true
	return f.result.Value, f.result.Err
}

// TryGet returns the outcome if the future is already satisfied. The boolean
// reports whether it was. It never starts a deferred computation.
func (f *Future[T]) TryGet() (T, error, bool) {
	select {
	case <-f.done:
		return f.result.Value, f.result.Err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// WaitFor waits up to d for the future to be satisfied without consuming it.
// It returns StatusReady, StatusFailed or StatusTimedOut, or StatusDeferred
// for a deferred future that nobody has started. A non-positive d polls.
func (f *Future[T]) WaitFor(d time.Duration) Status {
	select {
	case <-f.done:
		return f.Status()
	default:
	}

	if f.lazy != nil && !f.started.Load() {
		return StatusDeferred
	}

	if d <= 0 {
		return StatusTimedOut
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.Status()
	case <-timer.C:
		return StatusTimedOut
	}
}

// Status reports the current state.
func (f *Future[T]) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status == StatusPending && f.lazy != nil && !f.started.Load() {
		return StatusDeferred
	}
	return f.status
}

// Done returns a channel that is closed once the future is satisfied.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the future has been satisfied, with either outcome.
func (f *Future[T]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[T]) launch() {
	if f.lazy == nil {
		return
	}
	f.lazyOnce.Do(func() {
		f.started.Store(true)
		f.lazy()
	})
}
