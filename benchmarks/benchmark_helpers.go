package benchmarks

import (
	"slices"
	"testing"
	"time"

	"github.com/utkarsh5026/taskpool/pool"
)

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundWork simulates a CPU-intensive operation
func cpuBoundWork(iterations, task int) func() (int, error) {
	return func() (int, error) {
		result := 0
		for i := range iterations {
			result += i * task
		}
		return result, nil
	}
}

// ioBoundWork simulates an I/O operation with a delay
func ioBoundWork(delay time.Duration, task int) func() (int, error) {
	return func() (int, error) {
		time.Sleep(delay)
		return task * 2, nil
	}
}

// mixedWork simulates a realistic workload with variable processing time
func mixedWork(task int) func() (int, error) {
	return func() (int, error) {
		time.Sleep(time.Duration(task%10) * time.Microsecond * 100)

		result := 0
		for i := range 1000 {
			result += i
		}
		return result + task, nil
	}
}

// submitAndWait pushes taskCount tasks built by work through p and waits for
// every handle.
func submitAndWait(b *testing.B, p *pool.Pool, taskCount int, work func(task int) func() (int, error)) {
	b.Helper()

	handles := make([]*pool.Handle[int], taskCount)
	for i := range handles {
		h, err := pool.Submit(p, work(i))
		if err != nil {
			b.Fatal(err)
		}
		handles[i] = h
	}
	for _, h := range handles {
		_, _ = h.Get()
	}
}

func newPool(b *testing.B, workers int, opts ...pool.Option) *pool.Pool {
	b.Helper()

	p, err := pool.New(workers, opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = p.Shutdown() })
	return p
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}
