package camera

import "github.com/okian/courtvision/pkg/logger"

// Option applies a configuration option to the SyntheticSource.
type Option func(*SyntheticSource)

// WithFrameRate sets frames per second.
func WithFrameRate(fps int) Option {
	return func(s *SyntheticSource) {
		if fps > 0 {
			s.fps = fps
		}
	}
}

// WithResolution sets the frame size in pixels.
func WithResolution(width, height int) Option {
	return func(s *SyntheticSource) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithAvailable marks the source as (un)available at construction.
func WithAvailable(available bool) Option {
	return func(s *SyntheticSource) {
		s.available.Store(available)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SyntheticSource) {
		if l != nil {
			s.logger = l
		}
	}
}
