// SPDX-License-Identifier: MPL-2.0

package regen

import "sync"

// Queue is an unbounded FIFO safe for many producers and one consumer.
// Items from a single producer are dequeued in the order they were enqueued.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// Enqueue appends item.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// TryDequeue removes and returns the oldest item, reporting false when the
// queue is empty.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return item, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
