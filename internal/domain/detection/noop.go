package detection

import (
	"context"
	"sync/atomic"

	"github.com/okian/courtvision/internal/domain/model"
)

// NoopDetector is the seam for a real vision detector. It accepts frames
// and never reports a shot.
type NoopDetector struct {
	events chan model.ShotEvent
	active atomic.Bool
	frames atomic.Uint64
}

var _ Pipeline = (*NoopDetector)(nil)

// NewNoopDetector creates a detector that never emits.
func NewNoopDetector() *NoopDetector {
	return &NoopDetector{events: make(chan model.ShotEvent)}
}

func (d *NoopDetector) StartSession(context.Context, model.CourtCalibration) { d.active.Store(true) }
func (d *NoopDetector) StopSession()                                         { d.active.Store(false) }

// ProcessFrame counts frames seen while active.
func (d *NoopDetector) ProcessFrame(_ context.Context, _ model.Frame, _ model.CourtCalibration) {
	if d.active.Load() {
		d.frames.Add(1)
	}
}

func (d *NoopDetector) Events() <-chan model.ShotEvent { return d.events }

// Frames returns the number of frames seen while active.
func (d *NoopDetector) Frames() uint64 { return d.frames.Load() }
