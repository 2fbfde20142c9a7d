package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/courtvision/internal/domain/model"
)

func shot(result model.ShotResult) Submission {
	return Submission{Source: "test", Event: model.NewShotEvent(result, model.DistanceTwoPoint)}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	s := shot(model.Make)
	if err := q.Enqueue(ctx, s); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.Event.ID != s.Event.ID {
		t.Errorf("expected %v, got %v", s.Event.ID, got.Event.ID)
	}
	if got.EnqueuedAt.IsZero() {
		t.Error("expected enqueue time to be stamped")
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := q.Enqueue(ctx, shot(model.Miss)); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := q.Enqueue(ctx, shot(model.Make)); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_PreservesOrder(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	want := make([]Submission, 0, 10)
	for i := 0; i < 10; i++ {
		s := shot(model.Make)
		want = append(want, s)
		if err := q.Enqueue(ctx, s); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	_ = q.Close()

	i := 0
	for got := range q.Dequeue(ctx) {
		if got.Event.ID != want[i].Event.ID {
			t.Fatalf("position %d: got %v, want %v", i, got.Event.ID, want[i].Event.ID)
		}
		i++
	}
	if i != len(want) {
		t.Errorf("drained %d submissions, want %d", i, len(want))
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const producers, perProducer = 10, 50
	var consumed sync.WaitGroup
	consumed.Add(producers * perProducer)
	go func() {
		for range q.Dequeue(ctx) {
			consumed.Done()
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for errors.Is(q.Enqueue(ctx, shot(model.Make)), ErrFull) {
					time.Sleep(time.Millisecond)
				}
			}
		}()
	}
	wg.Wait()

	done := make(chan struct{})
	go func() {
		consumed.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for consumer")
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if err := q.Enqueue(ctx, shot(model.Make)); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, shot(model.Miss)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	ch := q.Dequeue(ctx)
	if _, ok := <-ch; !ok {
		t.Fatal("expected pending submission to be delivered after close")
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed after drain")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("expected dequeue channel to be closed within timeout")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got %v", err)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, shot(model.Make)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
