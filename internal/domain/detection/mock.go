package detection

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/logger"
	"github.com/okian/courtvision/pkg/metrics"
)

const (
	// DefaultInterval is how often the mock pipeline emits a shot.
	DefaultInterval = 3500 * time.Millisecond

	defaultBuffer = 16
)

var mockClasses = []model.DistanceClass{
	model.DistanceTwoPoint,
	model.DistanceThreePoint,
	model.DistanceFreeThrow,
}

// MockPipeline ignores frame content and emits a random shot every interval
// while a session is active.
type MockPipeline struct {
	interval time.Duration
	buffer   int
	rng      *rand.Rand
	logger   logger.Logger

	events chan model.ShotEvent

	mu     sync.Mutex
	active bool
	stop   context.CancelFunc
	done   chan struct{}

	emitted atomic.Uint64
	dropped atomic.Uint64
	frames  atomic.Uint64
}

var _ Pipeline = (*MockPipeline)(nil)

// NewMockPipeline creates an idle mock pipeline.
func NewMockPipeline(opts ...Option) *MockPipeline {
	p := &MockPipeline{
		interval: DefaultInterval,
		buffer:   defaultBuffer,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x636f757274))
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("mock-pipeline")
	}
	p.events = make(chan model.ShotEvent, p.buffer)
	return p
}

// StartSession starts (or restarts) the emitter.
func (p *MockPipeline) StartSession(ctx context.Context, _ model.CourtCalibration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.haltLocked()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.active = true
	p.stop = cancel
	p.done = make(chan struct{})
	go p.run(runCtx, p.done)
}

// StopSession halts the emitter and waits for it to exit.
func (p *MockPipeline) StopSession() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.haltLocked()
}

// ProcessFrame counts the frame; content is ignored.
func (p *MockPipeline) ProcessFrame(_ context.Context, _ model.Frame, _ model.CourtCalibration) {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()
	if active {
		p.frames.Add(1)
	}
}

// Events returns the shot channel.
func (p *MockPipeline) Events() <-chan model.ShotEvent { return p.events }

// Active reports whether a session is armed.
func (p *MockPipeline) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Emitted returns the number of events published.
func (p *MockPipeline) Emitted() uint64 { return p.emitted.Load() }

// Dropped returns the number of events discarded because the consumer lagged.
func (p *MockPipeline) Dropped() uint64 { return p.dropped.Load() }

// Frames returns the number of frames seen while active.
func (p *MockPipeline) Frames() uint64 { return p.frames.Load() }

func (p *MockPipeline) haltLocked() {
	p.active = false
	if p.stop == nil {
		return
	}
	p.stop()
	<-p.done
	p.stop = nil
	p.done = nil
}

func (p *MockPipeline) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.emit(ctx, p.draw())
		}
	}
}

// draw is only called from the emitter goroutine, which owns rng.
func (p *MockPipeline) draw() model.ShotEvent {
	result := model.Miss
	if p.rng.IntN(2) == 0 {
		result = model.Make
	}
	class := mockClasses[p.rng.IntN(len(mockClasses))]
	return model.NewShotEvent(result, class)
}

func (p *MockPipeline) emit(ctx context.Context, e model.ShotEvent) {
	if ctx.Err() != nil {
		return
	}
	select {
	case p.events <- e:
		p.emitted.Add(1)
		p.logger.Debug(ctx, "mock pipeline emitting shot",
			logger.String("result", string(e.Result)),
			logger.String("distance_class", string(e.DistanceClass)),
		)
	default:
		p.dropped.Add(1)
		metrics.RecordShotDropped("detector_backpressure")
	}
}
