package pool

import (
	"context"
	"time"

	"github.com/utkarsh5026/taskpool/internal/algorithms"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BackoffType selects how the delay between retries grows.
type BackoffType = algorithms.Kind

const (
	// BackoffExponential doubles the delay on every retry (default).
	BackoffExponential = algorithms.Exponential
	// BackoffConstant waits the same delay before every retry.
	BackoffConstant = algorithms.Constant
	// BackoffJittered randomizes each exponential delay by ±jitter.
	BackoffJittered = algorithms.Jittered
	// BackoffDecorrelated uses decorrelated jitter.
	BackoffDecorrelated = algorithms.Decorrelated
)

// Option is a functional option for configuring a Pool.
type Option func(*config)

// TaskInfo describes one finished task. It is passed to the WithOnTaskEnd hook.
type TaskInfo struct {
	Worker   int
	Err      error
	Duration time.Duration
}

type config struct {
	ctx     context.Context
	logger  *zap.Logger
	metrics *Metrics

	limiter *rate.Limiter

	maxAttempts  int
	backoffType  BackoffType
	initialDelay time.Duration
	maxDelay     time.Duration
	jitter       float64

	pinWorkers bool
	onTaskEnd  func(TaskInfo)
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		ctx:          context.Background(),
		logger:       zap.NewNop(),
		maxAttempts:  1,
		backoffType:  BackoffExponential,
		initialDelay: 0,
		maxDelay:     5 * time.Second,
		jitter:       0.1,
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) backoff() algorithms.Backoff {
	if c.maxAttempts <= 1 || c.initialDelay <= 0 {
		return nil
	}
	return algorithms.NewBackoff(c.backoffType, c.initialDelay, c.maxDelay, c.jitter)
}

// WithContext bounds the waits the pool performs on behalf of tasks: rate
// limiter waits and retry delays end early when ctx is done, failing the
// task with ctx.Err(). It does not stop workers or cancel running tasks.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}

// WithLogger sets the logger used for pool lifecycle and worker events.
// If not specified, nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics records pool activity into m. See NewMetrics.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithRateLimit caps how many tasks per second the pool starts across all
// workers, allowing bursts of up to burst tasks. Workers wait for a token
// before running each task.
//
// Example:
//
//	pool.WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithRetryPolicy runs a failing task up to maxAttempts times before its
// handle is failed. initialDelay is the wait before the first retry; later
// waits follow the backoff set by WithBackoff (exponential by default).
// Panics are not retried.
func WithRetryPolicy(maxAttempts int, initialDelay time.Duration) Option {
	return func(cfg *config) {
		if maxAttempts > 0 {
			cfg.maxAttempts = maxAttempts
		}
		if initialDelay > 0 {
			cfg.initialDelay = initialDelay
		}
	}
}

// WithBackoff chooses the retry backoff. maxDelay caps every delay and
// jitter is only used by BackoffJittered.
func WithBackoff(kind BackoffType, maxDelay time.Duration, jitter float64) Option {
	return func(cfg *config) {
		cfg.backoffType = kind
		if maxDelay > 0 {
			cfg.maxDelay = maxDelay
		}
		if jitter >= 0 {
			cfg.jitter = jitter
		}
	}
}

// WithCPUAffinity pins each worker goroutine to its own OS thread and, on
// linux, binds worker i to core i % NumCPU.
func WithCPUAffinity() Option {
	return func(cfg *config) {
		cfg.pinWorkers = true
	}
}

// WithOnTaskEnd registers a hook called on the worker goroutine after every
// task, whatever its outcome. The hook must be fast and must not panic.
func WithOnTaskEnd(fn func(TaskInfo)) Option {
	return func(cfg *config) {
		cfg.onTaskEnd = fn
	}
}
