package service

import (
	"time"

	"github.com/okian/courtvision/internal/config"
	"github.com/okian/courtvision/internal/domain/detection"
	"github.com/okian/courtvision/internal/domain/insights"
	"github.com/okian/courtvision/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the detected-shot queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMockShots enables or disables the mock detection pipeline. When
// disabled the detector never reports shots and only manual input counts.
func WithMockShots(enabled bool) Option {
	return func(s *Service) {
		s.mockShots = enabled
	}
}

// WithMockShotInterval sets the mock pipeline emission period.
func WithMockShotInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.mockInterval = d
		}
	}
}

// WithFrameRate sets the synthetic camera rate.
func WithFrameRate(fps int) Option {
	return func(s *Service) {
		if fps > 0 {
			s.frameRate = fps
		}
	}
}

// WithInsightsLatency sets the latency of the mock insights provider.
func WithInsightsLatency(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.insightsLatency = d
		}
	}
}

// WithHistoryLimit bounds the in-memory history. 0 keeps everything.
func WithHistoryLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.historyLimit = limit
		}
	}
}

// WithHistoryDBPath persists history to a SQLite database at path.
func WithHistoryDBPath(path string) Option {
	return func(s *Service) {
		s.historyDBPath = path
	}
}

// WithAPIBaseURL switches insights to the remote backend at url.
func WithAPIBaseURL(url string) Option {
	return func(s *Service) {
		s.apiBaseURL = url
	}
}

// WithPipeline injects a detection pipeline, overriding WithMockShots.
func WithPipeline(p detection.Pipeline) Option {
	return func(s *Service) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithInsightsProvider injects an insights provider, overriding
// WithAPIBaseURL and WithInsightsLatency.
func WithInsightsProvider(p insights.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.insights = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig maps a loaded Config onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithQueueSize(cfg.QueueSize),
		WithMockShots(cfg.MockShotsEnabled),
		WithMockShotInterval(cfg.MockShotInterval()),
		WithFrameRate(cfg.FrameRate),
		WithInsightsLatency(cfg.InsightsLatency()),
		WithHistoryLimit(cfg.HistoryLimit),
		WithHistoryDBPath(cfg.HistoryDBPath),
		WithAPIBaseURL(cfg.APIBaseURL),
	}
}
