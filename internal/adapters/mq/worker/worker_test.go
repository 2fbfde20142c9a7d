package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/courtvision/internal/adapters/mq/queue"
	worker "github.com/okian/courtvision/internal/adapters/mq/worker"
	model "github.com/okian/courtvision/internal/domain/model"
	logging "github.com/okian/courtvision/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	ch chan queue.Submission
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan queue.Submission, 16)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Submission { return mq.ch }

func (mq *mockQueue) add(e model.ShotEvent) {
	mq.ch <- queue.Submission{Source: "test", Event: e, EnqueuedAt: time.Now()}
}

type mockIngester struct {
	mu     sync.Mutex
	events []model.ShotEvent
	err    error
}

func (m *mockIngester) IngestEvent(_ context.Context, e model.ShotEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockIngester) received() []model.ShotEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ShotEvent(nil), m.events...)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestPump(t *testing.T) {
	convey.Convey("Given a running pump", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		ing := &mockIngester{}
		pump := worker.NewPump(q, ing, worker.WithName("test-pump"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go pump.Run(ctx)

		convey.Convey("When submissions arrive", func() {
			first := model.NewShotEvent(model.Make, model.DistanceTwoPoint)
			second := model.NewShotEvent(model.Miss, model.DistanceThreePoint)
			q.add(first)
			q.add(second)

			convey.Convey("Then they reach the ingester in order", func() {
				convey.So(waitFor(func() bool { return pump.Processed() == 2 }), convey.ShouldBeTrue)
				got := ing.received()
				convey.So(got[0].ID, convey.ShouldEqual, first.ID)
				convey.So(got[1].ID, convey.ShouldEqual, second.ID)
			})
		})

		convey.Convey("When the ingester rejects a submission", func() {
			ing.mu.Lock()
			ing.err = errors.New("no active session")
			ing.mu.Unlock()
			q.add(model.NewShotEvent(model.Make, model.DistanceFreeThrow))

			convey.Convey("Then it is counted as failed and the loop keeps going", func() {
				convey.So(waitFor(func() bool { return pump.Failed() == 1 }), convey.ShouldBeTrue)
				convey.So(pump.Processed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer shutdownCancel()

			convey.So(pump.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then a second shutdown is harmless", func() {
				convey.So(pump.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func TestPumpStopsWithQueue(t *testing.T) {
	convey.Convey("Given a pump on a real queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ing := &mockIngester{}
		pump := worker.NewPump(q, ing)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		convey.So(q.Enqueue(ctx, queue.Submission{Event: model.NewShotEvent(model.Make, model.DistanceTwoPoint)}), convey.ShouldBeNil)
		_ = q.Close()

		done := make(chan struct{})
		go func() {
			pump.Run(ctx)
			close(done)
		}()

		convey.Convey("Then the pending submission is applied and Run returns", func() {
			select {
			case <-done:
			case <-time.After(time.Second):
				convey.So("pump did not stop", convey.ShouldBeEmpty)
			}
			convey.So(len(ing.received()), convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given a pump whose context is cancelled", t, func() {
		_ = logging.Init()

		pump := worker.NewPump(newMockQueue(), &mockIngester{})
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			pump.Run(ctx)
			close(done)
		}()
		cancel()

		convey.Convey("Then Run returns", func() {
			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("pump did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}
