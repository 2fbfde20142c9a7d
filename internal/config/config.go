// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EnvironmentName labels the deployment ("Development", "Production").
	EnvironmentName string `koanf:"environment_name"`

	// APIBaseURL points at a remote insights backend. Empty selects the
	// in-process mock provider.
	APIBaseURL string `koanf:"api_base_url"`

	// QueueSize bounds the detected-shot submission queue.
	QueueSize int `koanf:"queue_size"`

	// MockShotsEnabled turns on the mock detection pipeline.
	MockShotsEnabled bool `koanf:"mock_shots_enabled"`

	// MockShotIntervalMS is the period of mock shot emission.
	MockShotIntervalMS int `koanf:"mock_shot_interval_ms"`

	// FrameRate is the synthetic frame source rate in frames per second.
	FrameRate int `koanf:"frame_rate"`

	// InsightsLatencyMS simulates the insights backend latency.
	InsightsLatencyMS int `koanf:"insights_latency_ms"`

	// HistoryLimit bounds the in-memory history; 0 keeps every record.
	HistoryLimit int `koanf:"history_limit"`

	// HistoryDBPath enables SQLite persistence of archived sessions.
	HistoryDBPath string `koanf:"history_db_path"`

	// MetricsRefreshIntervalMS is how often polled gauges are refreshed.
	MetricsRefreshIntervalMS int `koanf:"metrics_refresh_interval_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		EnvironmentName:    "Development",
		QueueSize:          1024,
		MockShotsEnabled:   true,
		MockShotIntervalMS: 3500,
		FrameRate:          30,
		InsightsLatencyMS:  400,
		HistoryLimit:       0,

		MetricsRefreshIntervalMS: 5000,
	}
}

// MockShotInterval returns the mock emission period as a duration.
func (c *Config) MockShotInterval() time.Duration {
	return time.Duration(c.MockShotIntervalMS) * time.Millisecond
}

// InsightsLatency returns the simulated insights latency as a duration.
func (c *Config) InsightsLatency() time.Duration {
	return time.Duration(c.InsightsLatencyMS) * time.Millisecond
}

// MetricsRefreshInterval returns the gauge refresh period as a duration.
func (c *Config) MetricsRefreshInterval() time.Duration {
	return time.Duration(c.MetricsRefreshIntervalMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate(_ context.Context) error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.MockShotIntervalMS < 1:
		return fmt.Errorf("%w: mock_shot_interval_ms must be positive", ErrInvalidConfig)
	case c.FrameRate < 1:
		return fmt.Errorf("%w: frame_rate must be positive", ErrInvalidConfig)
	case c.InsightsLatencyMS < 0:
		return fmt.Errorf("%w: insights_latency_ms must not be negative", ErrInvalidConfig)
	case c.HistoryLimit < 0:
		return fmt.Errorf("%w: history_limit must not be negative", ErrInvalidConfig)
	case c.MetricsRefreshIntervalMS < 1:
		return fmt.Errorf("%w: metrics_refresh_interval_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
