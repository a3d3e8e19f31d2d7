package algorithms

import (
	"math/rand"
	"sync"
	"time"
)

// maxShift bounds the exponent so the delay computation cannot overflow.
const maxShift = 62

// Kind selects how the delay between task retries grows.
type Kind int

const (
	// Exponential doubles the delay on each retry (default).
	Exponential Kind = iota
	// Constant waits the same delay before every retry.
	Constant
	// Jittered is Exponential with each delay scaled by a random factor in
	// [1-jitter, 1+jitter].
	Jittered
	// Decorrelated picks each delay at random between the base delay and
	// three times the previous delay.
	Decorrelated
)

// Backoff computes the wait before a retry.
type Backoff interface {
	// Delay returns how long to wait before retry number retry (0 is the
	// first retry after the initial failure).
	Delay(retry int) time.Duration
}

// NewBackoff builds a Backoff of the given kind. Delays never exceed ceiling;
// a non-positive ceiling disables the cap.
func NewBackoff(kind Kind, base, ceiling time.Duration, jitter float64) Backoff {
	if ceiling <= 0 {
		ceiling = time.Duration(1<<63 - 1)
	}

	switch kind {
	case Constant:
		return constant(min(base, ceiling))

	case Jittered:
		return &jittered{
			base:    base,
			ceiling: ceiling,
			jitter:  clamp(jitter, 0, 1),
			rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto rand
		}

	case Decorrelated:
		return &decorrelated{
			base:    base,
			ceiling: ceiling,
			prev:    base,
			rng:     rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter does not need crypto rand
		}

	default:
		return exponential{base: base, ceiling: ceiling}
	}
}

type constant time.Duration

func (c constant) Delay(retry int) time.Duration {
	if retry < 0 {
		return 0
	}
	return time.Duration(c)
}

type exponential struct {
	base, ceiling time.Duration
}

func (e exponential) Delay(retry int) time.Duration {
	return grow(retry, e.base, e.ceiling)
}

// grow returns base * 2^retry capped at ceiling.
func grow(retry int, base, ceiling time.Duration) time.Duration {
	if retry < 0 {
		return 0
	}
	if retry >= maxShift {
		return ceiling
	}

	d := base * time.Duration(int64(1)<<uint(retry))
	if d > ceiling || d < 0 || (base > 0 && d/base != time.Duration(int64(1)<<uint(retry))) {
		return ceiling
	}
	return d
}

type jittered struct {
	base, ceiling time.Duration
	jitter        float64

	mu  sync.Mutex
	rng *rand.Rand
}

func (j *jittered) Delay(retry int) time.Duration {
	if retry < 0 {
		return 0
	}

	j.mu.Lock()
	factor := 1 + (j.rng.Float64()*2-1)*j.jitter
	j.mu.Unlock()

	d := time.Duration(float64(grow(retry, j.base, j.ceiling)) * factor)
	return clamp(d, 0, j.ceiling)
}

// decorrelated keeps the previous delay, so one instance should serve one
// sequence of retries at a time. Retry 0 restarts the sequence.
type decorrelated struct {
	base, ceiling time.Duration

	mu   sync.Mutex
	prev time.Duration
	rng  *rand.Rand
}

func (d *decorrelated) Delay(retry int) time.Duration {
	if retry < 0 {
		return 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if retry == 0 {
		d.prev = d.base
		return d.base
	}

	upper := min(time.Duration(float64(d.prev)*3), d.ceiling)
	span := upper - d.base
	if span <= 0 {
		d.prev = d.base
		return d.base
	}

	d.prev = d.base + time.Duration(d.rng.Int63n(int64(span)))
	return d.prev
}

func clamp[N int | float64 | time.Duration](v, lo, hi N) N {
	return max(lo, min(v, hi))
}
