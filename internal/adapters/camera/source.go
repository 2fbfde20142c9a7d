// Package camera provides frame sources for the detection pipeline.
//
// Device capture is outside this service; SyntheticSource produces
// grayscale frames at a fixed rate so the rest of the pipeline can run
// headless.
package camera

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/logger"
	"github.com/okian/courtvision/pkg/metrics"
)

const (
	defaultFPS    = 30
	defaultWidth  = 64
	defaultHeight = 48
)

// Frame is an alias kept so callers of this package need not import model.
type Frame = model.Frame

// FrameHandler receives frames on the source's delivery goroutine.
type FrameHandler func(ctx context.Context, f Frame)

// Source starts and stops frame delivery.
type Source interface {
	StartRunning(ctx context.Context) error
	StopRunning()
}

// SyntheticSource emits frames at a fixed rate. When the handler is still
// busy with the previous frame the new one is discarded.
type SyntheticSource struct {
	handler       FrameHandler
	fps           int
	width, height int
	logger        logger.Logger

	available atomic.Bool
	produced  atomic.Uint64
	dropped   atomic.Uint64

	mu      sync.Mutex
	running bool
	stop    context.CancelFunc
	wg      sync.WaitGroup
	seq     uint64
}

var _ Source = (*SyntheticSource)(nil)

// NewSyntheticSource creates a stopped source delivering to handler.
func NewSyntheticSource(handler FrameHandler, opts ...Option) *SyntheticSource {
	s := &SyntheticSource{
		handler: handler,
		fps:     defaultFPS,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	s.available.Store(true)
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("camera")
	}
	return s
}

// StartRunning begins producing frames. It is a no-op when already running.
func (s *SyntheticSource) StartRunning(ctx context.Context) error {
	if !s.available.Load() {
		s.logger.Warn(ctx, "camera unavailable; start ignored")
		return ErrUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	pending := make(chan Frame, 1)
	s.running = true
	s.stop = cancel

	s.wg.Add(2)
	go s.produce(runCtx, pending)
	go s.deliver(runCtx, pending)
	return nil
}

// StopRunning halts production and waits for the delivery goroutine.
func (s *SyntheticSource) StopRunning() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.stop()
	s.wg.Wait()
	s.running = false
	s.stop = nil
}

// SetAvailable toggles availability; it does not stop a running source.
func (s *SyntheticSource) SetAvailable(available bool) { s.available.Store(available) }

// Running reports whether frames are being produced.
func (s *SyntheticSource) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Produced returns the number of frames handed to the delivery goroutine.
func (s *SyntheticSource) Produced() uint64 { return s.produced.Load() }

// Dropped returns the number of frames discarded because the handler lagged.
func (s *SyntheticSource) Dropped() uint64 { return s.dropped.Load() }

func (s *SyntheticSource) produce(ctx context.Context, pending chan<- Frame) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			f := s.next(now)
			select {
			case pending <- f:
				s.produced.Add(1)
				metrics.RecordFrameProduced()
			default:
				s.dropped.Add(1)
				metrics.RecordFrameDropped()
			}
		}
	}
}

func (s *SyntheticSource) deliver(ctx context.Context, pending <-chan Frame) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-pending:
			if s.handler != nil {
				s.handler(ctx, f)
			}
		}
	}
}

// next is only called from the producer goroutine.
func (s *SyntheticSource) next(now time.Time) Frame {
	s.seq++
	data := make([]byte, s.width*s.height)
	for i := range data {
		data[i] = byte(s.seq)
	}
	return Frame{
		Seq:       s.seq,
		Timestamp: now,
		Width:     s.width,
		Height:    s.height,
		Data:      data,
	}
}
