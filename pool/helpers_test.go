package pool

import (
	"testing"
	"time"
)

// newTestPool starts a pool and shuts it down when the test ends.
func newTestPool(t *testing.T, workers int, opts ...Option) *Pool {
	t.Helper()

	p, err := New(workers, opts...)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", workers, err)
	}
	t.Cleanup(func() {
		_ = p.Shutdown()
	})
	return p
}

// mustSubmit submits fn and fails the test if the pool refuses it.
func mustSubmit[T any](t *testing.T, p *Pool, fn func() (T, error)) *Handle[T] {
	t.Helper()

	h, err := Submit(p, fn)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	return h
}

// getWithin reads h, failing the test if the outcome takes longer than d.
func getWithin[T any](t *testing.T, h *Handle[T], d time.Duration) (T, error) {
	t.Helper()

	if status := h.WaitFor(d); status == StatusTimedOut {
		t.Fatalf("handle not satisfied within %v", d)
	}
	return h.Get()
}
