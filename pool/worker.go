package pool

import (
	"fmt"
	"runtime"
	"time"

	"github.com/utkarsh5026/taskpool/internal/algorithms"
	"github.com/utkarsh5026/taskpool/internal/cpu"
	"github.com/utkarsh5026/taskpool/internal/types"
	"go.uber.org/zap"
)

// work is the loop run by every worker goroutine. It takes tasks in FIFO
// order and exits when it dequeues a stop sentinel.
func (p *Pool) work(id int) {
	if p.cfg.pinWorkers {
		if err := cpu.Pin(id); err != nil {
			p.log.Warn("failed to pin worker", zap.Int("worker", id), zap.Error(err))
		}
	}

	p.log.Debug("worker started", zap.Int("worker", id))
	defer p.log.Debug("worker stopped", zap.Int("worker", id))

	for {
		t := p.tasks.Pop()
		if _, ok := t.(stopSignal); ok {
			return
		}
		p.run(id, t)
	}
}

// run executes one task and records its outcome. Tasks built by Submit never
// panic here; their wrapper already converted panics into failures.
func (p *Pool) run(worker int, t types.Task) {
	p.queued.Add(-1)
	p.busy.Add(1)
	p.cfg.metrics.startedTask()

	start := time.Now()
	err := t.Run()
	elapsed := time.Since(start)

	p.busy.Add(-1)
	if err != nil {
		p.failed.Add(1)
		p.log.Debug("task failed", zap.Int("worker", worker), zap.Error(err))
	} else {
		p.completed.Add(1)
	}
	p.cfg.metrics.finishedTask(err, elapsed)

	if p.cfg.onTaskEnd != nil {
		p.cfg.onTaskEnd(TaskInfo{Worker: worker, Err: err, Duration: elapsed})
	}
}

// execute runs fn under the pool's task policy. It waits for the rate limiter,
// retries returned errors with backoff and turns panics into a TaskError.
// A nil return means fn eventually succeeded.
func (p *Pool) execute(fn func() error) error {
	ctx := p.cfg.ctx

	if p.cfg.limiter != nil {
		if err := p.cfg.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			// fn never ran
			return &TaskError{Err: err, Attempts: 0}
		}
	}

	attempts := max(p.cfg.maxAttempts, 1)

	var (
		backoff algorithms.Backoff
		err     error
	)
	for attempt := range attempts {
		if attempt > 0 {
			if backoff == nil {
				backoff = p.cfg.backoff()
			}
			if backoff != nil {
				timer := time.NewTimer(backoff.Delay(attempt - 1))
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return &TaskError{Err: ctx.Err(), Attempts: attempt}
				}
			}
			p.log.Debug("retrying task", zap.Int("attempt", attempt+1), zap.Error(err))
		}

		var panicked *TaskError
		panicked, err = protect(fn)
		if panicked != nil {
			panicked.Attempts = attempt + 1
			p.log.Debug("task panicked", zap.Any("panic", panicked.Panic))
			return panicked
		}
		if err == nil {
			return nil
		}
	}

	return &TaskError{Err: err, Attempts: attempts}
}

// protect calls fn, converting a panic into a TaskError carrying the panic
// value and the stack of the panicking goroutine.
func protect(fn func() error) (panicked *TaskError, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)

			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			panicked = &TaskError{Err: cause, Panic: r, Stack: buf[:n]}
		}
	}()

	return nil, fn()
}
