package pool

import (
	"context"
	"time"

	"github.com/utkarsh5026/taskpool/internal/types"
	"go.uber.org/multierr"
)

// Status is the observable state of a Handle.
type Status = types.Status

// Handle states, as reported by Status and WaitFor.
const (
	StatusPending  = types.StatusPending
	StatusReady    = types.StatusReady
	StatusFailed   = types.StatusFailed
	StatusTimedOut = types.StatusTimedOut
	StatusDeferred = types.StatusDeferred
)

// Handle is the read side of a task's eventual outcome. It is safe for use by
// many goroutines: Get may be called any number of times and always returns
// the same value and error.
type Handle[T any] struct {
	f *types.Future[T]
}

// Get blocks until the outcome is available.
func (h *Handle[T]) Get() (T, error) {
	return h.f.Get()
}

// GetContext is like Get but returns ctx.Err() if ctx ends first. The task is
// not affected. An outcome that is already available is always returned, and
// a deferred handle started here runs to completion regardless of ctx.
func (h *Handle[T]) GetContext(ctx context.Context) (T, error) {
	return h.f.GetWithContext(ctx)
}

// Take returns the outcome once. Later calls return ErrAlreadyConsumed; Get is
// unaffected.
func (h *Handle[T]) Take() (T, error) {
	return h.f.Take()
}

// TryGet returns the outcome without blocking. The boolean reports whether
// the outcome was available.
func (h *Handle[T]) TryGet() (T, error, bool) {
	return h.f.TryGet()
}

// WaitFor waits at most d and reports StatusReady, StatusFailed,
// StatusTimedOut, or StatusDeferred for a deferred handle nobody has started.
func (h *Handle[T]) WaitFor(d time.Duration) Status {
	return h.f.WaitFor(d)
}

// Status reports the current state without waiting.
func (h *Handle[T]) Status() Status {
	return h.f.Status()
}

// Done returns a channel closed when the outcome is available. It does not
// start a deferred handle.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.f.Done()
}

func (h *Handle[T]) await(ctx context.Context) (bool, error) {
	if _, err, ok := h.f.TryGet(); ok {
		return true, err
	}

	_, err := h.f.GetWithContext(ctx)
	if !h.f.IsReady() {
		return false, err
	}
	_, err, _ = h.f.TryGet()
	return true, err
}

// Awaitable is implemented by every *Handle, whatever its value type.
type Awaitable interface {
	await(ctx context.Context) (finished bool, err error)
}

// WaitAll waits for every handle to finish and returns the failures of all of
// them combined into one error, or nil if every task succeeded. Deferred
// handles are started. If ctx ends first WaitAll returns at once with the
// failures seen so far plus ctx.Err().
func WaitAll(ctx context.Context, handles ...Awaitable) error {
	var errs error
	for _, h := range handles {
		finished, err := h.await(ctx)
		if !finished {
			return multierr.Append(errs, err)
		}
		errs = multierr.Append(errs, err)
	}
	return errs
}

// Promise is the write side of a Handle for outcomes produced outside the
// pool. Exactly one of SetValue or SetError succeeds.
type Promise[T any] struct {
	f *types.Future[T]
}

// NewPromise returns a pending promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{f: types.NewFuture[T]()}
}

// SetValue satisfies the promise with v.
// It returns ErrAlreadySatisfied if the promise was already satisfied.
func (p *Promise[T]) SetValue(v T) error {
	return p.f.SetValue(v)
}

// SetError fails the promise with err. A nil err is reported to readers as
// ErrNilFailure. It returns ErrAlreadySatisfied if the promise was already
// satisfied.
func (p *Promise[T]) SetError(err error) error {
	return p.f.SetError(err)
}

// Handle returns the read side of the promise. Every call returns a handle
// onto the same outcome.
func (p *Promise[T]) Handle() *Handle[T] {
	return &Handle[T]{f: p.f}
}
