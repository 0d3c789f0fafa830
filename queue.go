// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package cogutil

import (
	"context"
	"sync"

	"github.com/gammazero/deque"
)

// Queue is an unbounded, thread-safe FIFO queue for handing work items from
// producers to consumers, with a one-shot cancellation that permanently
// closes it. The zero value is an empty, open queue ready to use. A Queue
// must not be copied after first use.
//
// All operations share one critical section guarded by a mutex and a
// condition variable. Only [Queue.Pop] and [Queue.PopContext] block.
//
// Cancellation only stops insertion: items buffered at the moment of
// [Queue.Cancel] can still be retrieved, and blocked consumers observe
// closure once the buffer is empty.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   sync.Cond
	items  deque.Deque[T]
	closed bool
}

// lock acquires the queue's mutex, binding the condition variable to it on
// first use so that the zero value is usable.
func (q *Queue[T]) lock() {
	q.mu.Lock()
	if q.cond.L == nil {
		q.cond.L = &q.mu
	}
}

// Push appends item to the back of the queue and wakes one blocked consumer.
// If the queue has been cancelled the item is silently dropped; callers that
// need delivery confirmation must consult [Queue.IsClosed].
func (q *Queue[T]) Push(item T) {
	q.lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items.PushBack(item)
	q.cond.Signal()
}

// Pop removes and returns the item at the front of the queue, blocking until
// one is available. It returns the zero value and false once the queue is
// cancelled and no buffered items remain.
func (q *Queue[T]) Pop() (T, bool) {
	q.lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.popFront()
}

// PopContext is like [Queue.Pop] but also gives up when ctx is done. It
// returns [ErrClosed] once the queue is cancelled and drained, or ctx.Err()
// if ctx ends first. An item that is already buffered is returned even if ctx
// is done.
func (q *Queue[T]) PopContext(ctx context.Context) (T, error) {
	q.lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 && !q.closed && ctx.Done() != nil {
		// Wake every waiter when ctx ends so this one can notice. Taking the
		// lock before broadcasting guarantees the wakeup can't slip in between
		// the ctx check below and the call to Wait.
		stop := context.AfterFunc(ctx, func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			q.cond.Broadcast()
		})
		defer stop()
	}

	for q.items.Len() == 0 && !q.closed {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		q.cond.Wait()
	}
	item, ok := q.popFront()
	if !ok {
		return item, ErrClosed
	}
	return item, nil
}

// TryPop removes and returns the item at the front of the queue without
// blocking. It returns the zero value and false if the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.lock()
	defer q.mu.Unlock()
	return q.popFront()
}

// Drain removes and returns all buffered items in FIFO order. It returns nil
// if the queue is empty.
func (q *Queue[T]) Drain() []T {
	q.lock()
	defer q.mu.Unlock()
	n := q.items.Len()
	if n == 0 {
		return nil
	}
	items := make([]T, 0, n)
	for q.items.Len() > 0 {
		items = append(items, q.items.PopFront())
	}
	return items
}

// Empty reports whether the queue currently holds no items. The result is
// only a hint if other goroutines may be pushing or popping concurrently.
func (q *Queue[T]) Empty() bool {
	q.lock()
	defer q.mu.Unlock()
	return q.items.Len() == 0
}

// Len returns the number of buffered items. Like [Queue.Empty], the result is
// only a hint under concurrent use.
func (q *Queue[T]) Len() int {
	q.lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Cancel permanently closes the queue and wakes every blocked consumer.
// Subsequent pushes are dropped. Calling Cancel more than once has no further
// effect.
func (q *Queue[T]) Cancel() {
	q.lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// IsClosed reports whether [Queue.Cancel] has been called.
func (q *Queue[T]) IsClosed() bool {
	q.lock()
	defer q.mu.Unlock()
	return q.closed
}

// popFront must be called with q.mu held.
func (q *Queue[T]) popFront() (T, bool) {
	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items.PopFront(), true
}
