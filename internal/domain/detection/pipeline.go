// Package detection turns frames into shot events.
//
// A Pipeline publishes events on a channel instead of invoking callbacks;
// the application bridges that channel into the shot queue so that only the
// session controller ever mutates session state.
package detection

import (
	"context"

	"github.com/okian/courtvision/internal/domain/model"
)

// Pipeline consumes frames and emits detected shots.
type Pipeline interface {
	// StartSession arms the pipeline for a new session.
	StartSession(ctx context.Context, cal model.CourtCalibration)

	// StopSession disarms the pipeline. No events are emitted afterwards
	// until the next StartSession.
	StopSession()

	// ProcessFrame inspects one frame. It is called from the frame source
	// goroutine and must not block for long.
	ProcessFrame(ctx context.Context, f model.Frame, cal model.CourtCalibration)

	// Events returns the channel detected shots are published on. The
	// channel lives as long as the pipeline and is never closed.
	Events() <-chan model.ShotEvent
}
