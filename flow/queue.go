package flow

import "sync"

// Queue is an unbounded multi-producer queue drained by a single consumer.
// Push never blocks; the consumer empties the queue once per frame tick and
// sees values in enqueue order, with no coalescing.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewQueue returns an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends v. Safe from any goroutine.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

// TryPop removes and returns the oldest queued value.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

// Drain removes every value queued so far, calling fn on each in enqueue
// order, and returns how many were processed. Values pushed concurrently
// while fn runs are left for the next drain.
func (q *Queue[T]) Drain(fn func(T)) int {
	q.mu.Lock()
	batch := q.items
	q.items = nil
	q.mu.Unlock()

	for _, v := range batch {
		fn(v)
	}
	return len(batch)
}

// Len reports how many values are currently queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
