package queue

import "sync"

const minCapacity = 16

// Queue is an unbounded FIFO safe for any number of producers and consumers.
//
// A single mutex guards the backing ring buffer and a condition variable parks
// consumers while the queue is empty. Items pushed by one goroutine are popped
// in the order they were pushed; between goroutines the order is whichever
// critical section completed first.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond

	buf   []T
	head  int
	count int
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{
		buf: make([]T, minCapacity),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail and wakes one blocked consumer.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.put(item)
	q.mu.Unlock()

	q.notEmpty.Signal()
}

// PushAll appends every item in a single critical section, preserving their
// order, and wakes all blocked consumers.
func (q *Queue[T]) PushAll(items ...T) {
	if len(items) == 0 {
		return
	}

	q.mu.Lock()
	for _, item := range items {
		q.put(item)
	}
	q.mu.Unlock()

	q.notEmpty.Broadcast()
}

// Pop blocks until the queue is non-empty, then removes and returns the head.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 {
		q.notEmpty.Wait()
	}
	return q.take()
}

// TryPop removes and returns the head without blocking.
//
// It reports false when the queue is empty and also when another goroutine
// currently holds the lock, so a false result under contention does not mean
// the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	var zero T
	if !q.mu.TryLock() {
		return zero, false
	}
	defer q.mu.Unlock()

	if q.count == 0 {
		return zero, false
	}
	return q.take(), true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Empty reports whether the queue currently holds no items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// put must be called with mu held.
func (q *Queue[T]) put(item T) {
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.count)%len(q.buf)] = item
	q.count++
}

// take must be called with mu held and count > 0.
func (q *Queue[T]) take() T {
	var zero T
	item := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--

	if q.count == 0 {
		q.head = 0
	}
	return item
}

func (q *Queue[T]) grow() {
	next := make([]T, len(q.buf)*2)
	n := copy(next, q.buf[q.head:])
	copy(next[n:], q.buf[:q.head])
	q.buf = next
	q.head = 0
}
