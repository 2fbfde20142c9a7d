package detection

import (
	"math/rand/v2"
	"time"

	"github.com/okian/courtvision/pkg/logger"
)

// Option applies a configuration option to the MockPipeline.
type Option func(*MockPipeline)

// WithInterval sets the emission period.
func WithInterval(d time.Duration) Option {
	return func(p *MockPipeline) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithRand injects the random source used to draw results and classes.
func WithRand(r *rand.Rand) Option {
	return func(p *MockPipeline) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithBuffer sets the capacity of the events channel.
func WithBuffer(n int) Option {
	return func(p *MockPipeline) {
		if n > 0 {
			p.buffer = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *MockPipeline) {
		if l != nil {
			p.logger = l
		}
	}
}
