// Package queue carries detected shots from producers to the ingest pump.
//
// Producers (the detection bridge) never block: a full queue rejects the
// submission and the caller decides whether to log or drop it.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Submission is one shot waiting to be folded into the active session.
type Submission struct {
	// Source names the producer, e.g. "detector".
	Source     string
	Event      model.ShotEvent
	EnqueuedAt time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a submission. It returns ErrFull or ErrClosed when the
	// submission was not accepted.
	Enqueue(ctx context.Context, s Submission) error

	// Dequeue returns a channel that yields submissions in arrival order.
	// The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Submission

	// Len returns the current number of pending submissions.
	Len(ctx context.Context) int

	// Close stops accepting submissions.
	Close() error

	// IsClosed reports whether Close was called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	items    chan Submission
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a bounded queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Submission, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a submission without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Submission) error {
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueRejected("context_cancelled")
		return err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		return ErrClosed
	}
	if s.EnqueuedAt.IsZero() {
		s.EnqueuedAt = time.Now()
	}

	select {
	case q.items <- s:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items))
		return nil
	default:
		metrics.RecordQueueRejected("full")
		return ErrFull
	}
}

// Dequeue returns a channel fed from the queue until it is closed or ctx
// is done.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Submission {
	out := make(chan Submission)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-q.items:
				if !ok {
					return
				}
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.items))
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of pending submissions.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.items)
}

// Close stops accepting submissions. Pending ones are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
