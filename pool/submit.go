package pool

import (
	"fmt"

	"github.com/utkarsh5026/taskpool/internal/types"
)

// Submit queues fn on p and returns a handle to its outcome.
//
// The value fn returns becomes the handle's value. An error returned by fn, or
// a panic inside it, fails the handle with a *TaskError; the worker carries on
// with the next task. Submit returns ErrPoolClosed once Shutdown has begun, in
// which case fn is never run, and ErrNilTask for a nil fn.
//
// Submit is a function rather than a method because Go methods cannot
// introduce type parameters.
//
// Example:
//
//	h, err := pool.Submit(p, func() (int, error) {
//	    return len(body), nil
//	})
//	if err != nil {
//	    return err
//	}
//	n, err := h.Get()
func Submit[T any](p *Pool, fn func() (T, error)) (*Handle[T], error) {
	if fn == nil {
		return nil, ErrNilTask
	}

	f := types.NewFuture[T]()
	task := types.TaskFunc(func() error {
		var v T
		err := p.execute(func() (err error) {
			v, err = fn()
			return err
		})
		if err != nil {
			_ = f.SetError(err)
			return err
		}
		_ = f.SetValue(v)
		return nil
	})

	if err := p.enqueue(task); err != nil {
		return nil, err
	}
	return &Handle[T]{f: f}, nil
}

// SubmitFunc queues a function with no result. The handle reports only
// completion or failure.
func SubmitFunc(p *Pool, fn func()) (*Handle[struct{}], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(p, func() (struct{}, error) {
		fn()
		return struct{}{}, nil
	})
}

// SubmitStoppable queues fn with a token from src. Stopping is cooperative:
// fn should poll the token at convenient points and return early, typically
// with token.Err(), once a stop has been requested. The task is never
// interrupted by the pool.
func SubmitStoppable[T any](p *Pool, src *StopSource, fn func(StopToken) (T, error)) (*Handle[T], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil stop source", ErrInvalidConfig)
	}

	token := src.Token()
	return Submit(p, func() (T, error) {
		return fn(token)
	})
}
