package queue

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_PushPop(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		q := New[int]()
		for i := range 100 {
			q.Push(i)
		}

		for i := range 100 {
			if got := q.Pop(); got != i {
				t.Fatalf("expected %d, got %d", i, got)
			}
		}

		if !q.Empty() {
			t.Errorf("expected empty queue, got len %d", q.Len())
		}
	})

	t.Run("order survives wraparound and growth", func(t *testing.T) {
		q := New[int]()
		next := 0
		expected := 0

		// interleave pushes and pops so head moves before the buffer grows
		for round := range 10 {
			for range round * 7 {
				q.Push(next)
				next++
			}
			for range round * 3 {
				if got := q.Pop(); got != expected {
					t.Fatalf("expected %d, got %d", expected, got)
				}
				expected++
			}
		}

		for !q.Empty() {
			if got := q.Pop(); got != expected {
				t.Fatalf("expected %d, got %d", expected, got)
			}
			expected++
		}

		if expected != next {
			t.Errorf("expected to drain %d items, drained %d", next, expected)
		}
	})

	t.Run("push all keeps order", func(t *testing.T) {
		q := New[string]()
		q.Push("a")
		q.PushAll("b", "c", "d")
		q.PushAll()

		if q.Len() != 4 {
			t.Fatalf("expected len 4, got %d", q.Len())
		}
		for _, want := range []string{"a", "b", "c", "d"} {
			if got := q.Pop(); got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		}
	})
}

func TestQueue_PopBlocks(t *testing.T) {
	q := New[int]()
	got := make(chan int, 1)

	go func() {
		got <- q.Pop()
	}()

	select {
	case v := <-got:
		t.Fatalf("Pop returned %d on an empty queue", v)
	case <-time.After(50 * time.Millisecond):
	}

	q.Push(42)

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not wake after Push")
	}
}

func TestQueue_PushAllWakesEveryConsumer(t *testing.T) {
	q := New[int]()
	const consumers = 8

	var wg sync.WaitGroup
	wg.Add(consumers)
	for range consumers {
		go func() {
			defer wg.Done()
			q.Pop()
		}()
	}

	time.Sleep(20 * time.Millisecond)
	items := make([]int, consumers)
	q.PushAll(items...)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not every consumer was woken")
	}
}

func TestQueue_TryPop(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		q := New[int]()
		if v, ok := q.TryPop(); ok {
			t.Errorf("expected no item, got %d", v)
		}
	})

	t.Run("non-empty", func(t *testing.T) {
		q := New[int]()
		q.Push(7)
		v, ok := q.TryPop()
		if !ok || v != 7 {
			t.Errorf("expected (7, true), got (%d, %v)", v, ok)
		}
	})

	t.Run("contended lock reports empty", func(t *testing.T) {
		q := New[int]()
		q.Push(1)

		q.mu.Lock()
		_, ok := q.TryPop()
		q.mu.Unlock()

		if ok {
			t.Error("expected TryPop to give up while the lock is held")
		}
		if q.Len() != 1 {
			t.Errorf("expected item to remain queued, len %d", q.Len())
		}
	})
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := New[int]()
	const (
		producers   = 8
		consumers   = 8
		perProducer = 1000
		total       = producers * perProducer
	)

	var seen sync.Map
	var pwg, cwg sync.WaitGroup

	pwg.Add(producers)
	for p := range producers {
		go func() {
			defer pwg.Done()
			for i := range perProducer {
				q.Push(p*perProducer + i)
			}
		}()
	}

	results := make(chan int, total)
	cwg.Add(consumers)
	for range consumers {
		go func() {
			defer cwg.Done()
			for range total / consumers {
				results <- q.Pop()
			}
		}()
	}

	pwg.Wait()
	cwg.Wait()
	close(results)

	count := 0
	for v := range results {
		if _, dup := seen.LoadOrStore(v, struct{}{}); dup {
			t.Fatalf("item %d popped twice", v)
		}
		count++
	}

	if count != total {
		t.Errorf("expected %d items, got %d", total, count)
	}
	if !q.Empty() {
		t.Errorf("expected empty queue, got len %d", q.Len())
	}
}

func TestQueue_PerProducerOrder(t *testing.T) {
	q := New[[2]int]()
	const producers, perProducer = 4, 500

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := range producers {
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Push([2]int{p, i})
			}
		}()
	}
	wg.Wait()

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for range producers * perProducer {
		item := q.Pop()
		if item[1] <= last[item[0]] {
			t.Fatalf("producer %d: item %d popped after %d", item[0], item[1], last[item[0]])
		}
		last[item[0]] = item[1]
	}
}
