// Package pool provides a fixed-size pool of worker goroutines that run
// submitted functions in FIFO order and hand their outcomes back through
// write-once handles.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown()
//
//	handles := make([]*pool.Handle[int], 20)
//	for i := range handles {
//	    handles[i], _ = pool.Submit(p, func() (int, error) { return i * i, nil })
//	}
//	for _, h := range handles {
//	    v, err := h.Get()
//	    ...
//	}
//
// # Failures
//
// A task that returns an error or panics fails only its own handle, with a
// *TaskError. errors.Is and errors.As see through it to the cause:
//
//	_, err := h.Get()
//	var rerr runtime.Error
//	if errors.As(err, &rerr) {
//	    // the task divided by zero
//	}
//
// # Waiting
//
// Handle.Get blocks, Handle.GetContext honours a context, and Handle.WaitFor
// polls with a timeout:
//
//	switch h.WaitFor(50 * time.Millisecond) {
//	case pool.StatusReady, pool.StatusFailed:
//	    v, err := h.Get()
//	case pool.StatusTimedOut:
//	    // still running
//	}
//
// # Shutdown
//
// Shutdown rejects new submissions with ErrPoolClosed, lets the workers run
// every task already accepted and returns once all of them have exited.
// Calling it again is harmless. ShutdownContext bounds the wait.
//
// # Retry and Rate Limiting
//
//	p, _ := pool.New(8,
//	    pool.WithRetryPolicy(3, 100*time.Millisecond), // 3 attempts, 100ms initial delay
//	    pool.WithBackoff(pool.BackoffJittered, 2*time.Second, 0.2),
//	    pool.WithRateLimit(50, 10),                     // 50 tasks/sec, burst of 10
//	)
//
// # Outside the Pool
//
// Promise is a handle whose outcome is set by hand, Async and Spawn run a
// single computation on its own goroutine or lazily on first read, and
// StopSource hands tasks a token to poll for cooperative cancellation.
package pool
