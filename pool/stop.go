package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrStopped is returned by StopToken.Err once a stop has been requested.
var ErrStopped = errors.New("stop requested")

// StopSource requests cooperative cancellation of the tasks holding its
// tokens. It never interrupts anything: tasks observe the request by polling.
type StopSource struct {
	requested atomic.Bool
	once      sync.Once
	done      chan struct{}
}

// NewStopSource returns a source with no stop requested.
func NewStopSource() *StopSource {
	return &StopSource{done: make(chan struct{})}
}

// RequestStop asks every holder of a token to stop. It reports whether this
// call made the request; later calls return false.
func (s *StopSource) RequestStop() bool {
	made := false
	s.once.Do(func() {
		s.requested.Store(true)
		close(s.done)
		made = true
	})
	return made
}

// StopRequested reports whether RequestStop has been called.
func (s *StopSource) StopRequested() bool {
	return s.requested.Load()
}

// Token returns a token observing s.
func (s *StopSource) Token() StopToken {
	return StopToken{src: s}
}

// StopToken is the read side of a StopSource. The zero value has no source
// and can never be stopped.
type StopToken struct {
	src *StopSource
}

// StopRequested reports whether a stop has been requested.
func (t StopToken) StopRequested() bool {
	return t.src != nil && t.src.StopRequested()
}

// StopPossible reports whether the token is tied to a source.
func (t StopToken) StopPossible() bool {
	return t.src != nil
}

// Done returns a channel closed when a stop is requested. For the zero token
// it returns nil, which blocks forever in a select.
func (t StopToken) Done() <-chan struct{} {
	if t.src == nil {
		return nil
	}
	return t.src.done
}

// Err returns ErrStopped once a stop has been requested and nil before.
func (t StopToken) Err() error {
	if t.StopRequested() {
		return ErrStopped
	}
	return nil
}

// Context returns a context derived from parent that is cancelled, with cause
// ErrStopped, when a stop is requested. Callers must call the returned cancel
// function to release the watcher goroutine.
func (t StopToken) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	if t.src != nil {
		go func() {
			select {
			case <-t.src.done:
				cancel(ErrStopped)
			case <-ctx.Done():
			}
		}()
	}
	return ctx, func() { cancel(context.Canceled) }
}
