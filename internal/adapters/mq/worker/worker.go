// Package worker drains the shot queue into the session controller.
//
// A single Pump consumes submissions in arrival order, so every detected
// shot reaches the controller exactly once and in the order it was queued.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/courtvision/internal/adapters/mq/queue"
	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/logger"
	"github.com/okian/courtvision/pkg/metrics"
)

// Ingester folds one detected shot into the active session.
type Ingester interface {
	IngestEvent(ctx context.Context, e model.ShotEvent) error
}

// Queue defines how the pump receives submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Submission
}

// Worker is a long-running consumer.
type Worker interface {
	// Run consumes until ctx is canceled, Shutdown is called or the queue
	// is closed.
	Run(ctx context.Context)

	// Shutdown stops the loop and waits for it to exit.
	Shutdown(ctx context.Context) error
}

// Pump implements Worker with a single consumer goroutine.
type Pump struct {
	queue    Queue
	ingester Ingester
	name     string

	processed atomic.Uint64
	failed    atomic.Uint64

	shutdown chan struct{}
	stopOnce atomic.Bool
	done     chan struct{}

	logger logger.Logger
}

var _ Worker = (*Pump)(nil)

// NewPump creates a pump reading from q and writing to ingester.
func NewPump(q Queue, ingester Ingester, opts ...Option) *Pump {
	p := &Pump{
		queue:    q,
		ingester: ingester,
		name:     "pump",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Run starts the consume loop. It returns when ctx is done, Shutdown is
// called or the queue channel closes.
func (p *Pump) Run(ctx context.Context) {
	defer close(p.done)

	ch := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case s, ok := <-ch:
			if !ok {
				return
			}
			if err := p.process(ctx, s); err != nil {
				p.failed.Add(1)
				p.logger.Debug(ctx, "submission not applied",
					logger.String("source", s.Source),
					logger.String("event_id", s.Event.ID.String()),
					logger.Error(err),
				)
				continue
			}
			p.processed.Add(1)
		}
	}
}

// Shutdown signals the loop and waits for it to finish.
func (p *Pump) Shutdown(ctx context.Context) error {
	if p.stopOnce.CompareAndSwap(false, true) {
		close(p.shutdown)
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns the number of submissions the ingester accepted.
func (p *Pump) Processed() uint64 { return p.processed.Load() }

// Failed returns the number of submissions the ingester rejected.
func (p *Pump) Failed() uint64 { return p.failed.Load() }

func (p *Pump) process(ctx context.Context, s queue.Submission) error {
	defer func() {
		if !s.EnqueuedAt.IsZero() {
			metrics.RecordIngestLatency(float64(time.Since(s.EnqueuedAt).Microseconds()) / 1000)
		}
	}()
	return p.ingester.IngestEvent(ctx, s.Event)
}
