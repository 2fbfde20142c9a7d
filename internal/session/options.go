package session

import (
	"time"

	"github.com/okian/courtvision/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithDetector sets the detection collaborator.
func WithDetector(d Detector) Option {
	return func(c *Controller) {
		if d != nil {
			c.detector = d
		}
	}
}

// WithFrameSource sets the frame source collaborator.
func WithFrameSource(f FrameSource) Option {
	return func(c *Controller) {
		if f != nil {
			c.frames = f
		}
	}
}

// WithHistory sets the store archived sessions are prepended to.
func WithHistory(h History) Option {
	return func(c *Controller) {
		if h != nil {
			c.history = h
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the time source used for event and record stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}
