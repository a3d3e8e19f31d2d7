package pool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmit_NilTask(t *testing.T) {
	p := newTestPool(t, 1)

	if _, err := Submit[int](p, nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("Submit: expected ErrNilTask, got %v", err)
	}
	if _, err := SubmitFunc(p, nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("SubmitFunc: expected ErrNilTask, got %v", err)
	}
	if _, err := SubmitStoppable[int](p, NewStopSource(), nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("SubmitStoppable: expected ErrNilTask, got %v", err)
	}
	if p.Stats().Submitted != 0 {
		t.Errorf("expected nothing submitted, got %d", p.Stats().Submitted)
	}
}

func TestSubmitFunc(t *testing.T) {
	p := newTestPool(t, 2)

	var ran atomic.Bool
	h, err := SubmitFunc(p, func() { ran.Store(true) })
	if err != nil {
		t.Fatalf("SubmitFunc failed: %v", err)
	}

	if _, err := getWithin(t, h, time.Second); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if !ran.Load() {
		t.Error("function did not run")
	}
}

func TestSubmitFunc_Panic(t *testing.T) {
	p := newTestPool(t, 1)

	h, err := SubmitFunc(p, func() { panic(errors.New("broken")) })
	if err != nil {
		t.Fatalf("SubmitFunc failed: %v", err)
	}

	_, err = getWithin(t, h, time.Second)
	var taskErr *TaskError
	if !errors.As(err, &taskErr) || !taskErr.Panicked() {
		t.Fatalf("expected panic TaskError, got %v", err)
	}
	if taskErr.Err.Error() != "broken" {
		t.Errorf("expected panic error as cause, got %v", taskErr.Err)
	}
}

func TestSubmitStoppable(t *testing.T) {
	t.Run("stops at checkpoint", func(t *testing.T) {
		p := newTestPool(t, 1)
		src := NewStopSource()

		started := make(chan struct{})
		h, err := SubmitStoppable(p, src, func(token StopToken) (int, error) {
			close(started)
			iterations := 0
			for !token.StopRequested() {
				iterations++
				time.Sleep(time.Millisecond)
			}
			return iterations, token.Err()
		})
		if err != nil {
			t.Fatalf("SubmitStoppable failed: %v", err)
		}

		<-started
		if status := h.WaitFor(20 * time.Millisecond); status != StatusTimedOut {
			t.Errorf("expected the task to keep running, got %v", status)
		}

		if !src.RequestStop() {
			t.Error("expected the first RequestStop to make the request")
		}

		_, err = getWithin(t, h, time.Second)
		if !errors.Is(err, ErrStopped) {
			t.Errorf("expected ErrStopped, got %v", err)
		}
	})

	t.Run("shared source", func(t *testing.T) {
		p := newTestPool(t, 3)
		src := NewStopSource()

		handles := make([]*Handle[bool], 3)
		for i := range handles {
			h, err := SubmitStoppable(p, src, func(token StopToken) (bool, error) {
				<-token.Done()
				return token.StopRequested(), nil
			})
			if err != nil {
				t.Fatalf("SubmitStoppable failed: %v", err)
			}
			handles[i] = h
		}

		src.RequestStop()
		for _, h := range handles {
			if v, err := getWithin(t, h, time.Second); err != nil || !v {
				t.Errorf("expected (true, nil), got (%v, %v)", v, err)
			}
		}
	})

	t.Run("nil source", func(t *testing.T) {
		p := newTestPool(t, 1)
		_, err := SubmitStoppable(p, nil, func(StopToken) (int, error) { return 0, nil })
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
