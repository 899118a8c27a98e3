package realtime

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Next once the queue is closed and drained.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded FIFO of framed stream payloads. Push never blocks,
// so a slow SSE consumer can never stall a broadcast; Next blocks until an
// item arrives, the queue closes, or the context ends.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []string
	closed bool
}

func newQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an item. It is a no-op on a closed queue.
func (q *Queue) Push(item string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, item)
	q.cond.Signal()
}

// Next returns the oldest queued item, blocking until one is available.
// Returns ErrQueueClosed after Close once the backlog is drained, or the
// context error if ctx ends first.
func (q *Queue) Next(ctx context.Context) (string, error) {
	// Wake any waiter when the caller's context ends.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.cond.Broadcast()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if len(q.items) == 0 {
		return "", ErrQueueClosed
	}

	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

// Close discards future pushes and wakes all blocked readers. Items already
// queued remain readable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

// Len reports the current backlog size.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
