package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/segmentio/ksuid"
	"github.com/utkarsh5026/taskpool/internal/queue"
	"github.com/utkarsh5026/taskpool/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is a stage of the pool lifecycle.
type State int32

const (
	// StateConstructed is the brief stage before the workers are started.
	StateConstructed State = iota
	// StateRunning accepts submissions.
	StateRunning
	// StateDraining rejects submissions while workers finish queued tasks.
	StateDraining
	// StateStopped means every worker has exited.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Submitted int64 // tasks accepted by Submit
	Completed int64 // tasks that finished without error
	Failed    int64 // tasks that returned an error or panicked
	Rejected  int64 // submissions refused because the pool was closed
	Queued    int64 // accepted tasks no worker has picked up yet
	Busy      int64 // workers currently running a task
}

// stopSignal is the terminal sentinel. Shutdown queues one per worker behind
// all accepted tasks; a worker that dequeues it exits.
type stopSignal struct{}

func (stopSignal) Run() error { return nil }

// Pool is a fixed set of worker goroutines fed by a FIFO task queue.
//
// Work is submitted with Submit, SubmitFunc or SubmitStoppable, each of which
// returns a Handle for the task's outcome. The number of workers is fixed at
// construction. Shutdown stops accepting work, lets the workers finish
// everything already queued, and waits for them to exit.
type Pool struct {
	id      string
	workers int
	cfg     *config
	log     *zap.Logger
	tasks   *queue.Queue[types.Task]

	// mu orders submissions against the switch to draining: enqueue holds the
	// read lock across its state check and push, so no task can be queued
	// behind the stop sentinels.
	mu    sync.RWMutex
	state atomic.Int32

	group    errgroup.Group
	stopOnce sync.Once
	stopped  chan struct{}

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
	queued    atomic.Int64
	busy      atomic.Int64
}

// New starts a pool with exactly workerCount workers.
// It returns an error wrapping ErrInvalidConfig if workerCount is not positive.
//
// Example:
//
//	p, err := pool.New(4, pool.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown()
//
//	h, _ := pool.Submit(p, func() (int, error) { return 6 * 7, nil })
//	v, err := h.Get()
func New(workerCount int, opts ...Option) (*Pool, error) {
	if workerCount <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidConfig, workerCount)
	}

	cfg := newConfig(opts...)
	id := ksuid.New().String()

	p := &Pool{
		id:      id,
		workers: workerCount,
		cfg:     cfg,
		log:     cfg.logger.With(zap.String("pool", id)),
		tasks:   queue.New[types.Task](),
		stopped: make(chan struct{}),
	}
	p.state.Store(int32(StateConstructed))

	for i := range workerCount {
		p.group.Go(func() error {
			p.work(i)
			return nil
		})
	}

	p.state.Store(int32(StateRunning))
	p.log.Info("pool started", zap.Int("workers", workerCount))
	return p, nil
}

// ID returns the pool's unique identifier, as used in its log entries.
func (p *Pool) ID() string {
	return p.id
}

// WorkerCount returns the number of workers, fixed at construction.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// State returns the current lifecycle stage.
func (p *Pool) State() State {
	return State(p.state.Load())
}

// Queued returns the number of accepted tasks that have not started yet.
func (p *Pool) Queued() int {
	return int(p.queued.Load())
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Rejected:  p.rejected.Load(),
		Queued:    p.queued.Load(),
		Busy:      p.busy.Load(),
	}
}

// Shutdown stops accepting tasks, waits for every task already accepted to
// run, and then waits for all workers to exit. It never cancels work.
//
// Shutdown is safe to call more than once and from several goroutines: every
// call blocks until the pool has stopped and returns nil.
func (p *Pool) Shutdown() error {
	return p.ShutdownContext(context.Background())
}

// ShutdownContext is Shutdown with a bound on the wait. If ctx ends first it
// returns an error wrapping both ErrShutdownTimeout and ctx.Err(); the drain
// carries on in the background and Wait can be used to observe its end.
func (p *Pool) ShutdownContext(ctx context.Context) error {
	p.stopOnce.Do(func() {
		go p.drain()
	})

	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

// Wait blocks until the pool has stopped. It does not initiate a shutdown.
func (p *Pool) Wait() {
	<-p.stopped
}

// Done returns a channel that is closed once the pool has stopped.
func (p *Pool) Done() <-chan struct{} {
	return p.stopped
}

func (p *Pool) drain() {
	p.mu.Lock()
	p.state.Store(int32(StateDraining))
	p.mu.Unlock()

	p.log.Info("pool draining", zap.Int64("queued", p.queued.Load()))

	sentinels := make([]types.Task, p.workers)
	for i := range sentinels {
		sentinels[i] = stopSignal{}
	}
	p.tasks.PushAll(sentinels...)

	_ = p.group.Wait()

	p.state.Store(int32(StateStopped))
	p.log.Info("pool stopped",
		zap.Int64("completed", p.completed.Load()),
		zap.Int64("failed", p.failed.Load()),
	)
	close(p.stopped)
}

// enqueue hands a wrapped task to the workers, or rejects it once the pool
// has left the running state.
func (p *Pool) enqueue(t types.Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.State() != StateRunning {
		p.rejected.Add(1)
		p.cfg.metrics.rejectedTask()
		return ErrPoolClosed
	}

	p.submitted.Add(1)
	p.queued.Add(1)
	p.cfg.metrics.submittedTask()
	p.tasks.Push(t)
	return nil
}
