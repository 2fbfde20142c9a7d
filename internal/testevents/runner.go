package testevents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/courtvision/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes one complete drive: health check, session start, shot
// submission, session end and verification.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	config = withDefaults(config)
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("drive")

	log.Info(ctx, "starting courtvision drive",
		logger.String("baseURL", config.BaseURL),
		logger.Int("shots", config.NumShots),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	shots, expected := generateShots(config.NumShots, config.Seed)
	stats.ShotsGenerated = len(shots)
	stats.Expected = expected

	if err := startSession(ctx, client); err != nil {
		return stats, fmt.Errorf("session start failed: %w", err)
	}

	submitShots(ctx, config, client, shots, stats)

	// End the session even when ctx expired mid-submission so the server
	// is not left with an active session.
	endCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.Timeout)
	defer cancel()
	rec, err := endSession(endCtx, client)
	if err != nil {
		return stats, fmt.Errorf("session end failed: %w", err)
	}
	stats.Record = rec

	if err := verifyRecord(rec, stats); err != nil {
		return stats, err
	}

	if config.OutputFile != "" {
		if err := saveRecord(config.OutputFile, stats); err != nil {
			log.Warn(ctx, "failed to save record", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "drive completed",
		logger.Int("accepted", stats.ShotsAccepted),
		logger.Int("failed", stats.ShotsFailed),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

func withDefaults(c *Config) *Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.NumShots < 0 {
		out.NumShots = 0
	}
	if out.Workers < 1 {
		out.Workers = DefaultWorkers
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	return &out
}

// saveRecord writes the archived record as indented JSON.
func saveRecord(path string, stats *Stats) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(stats.Record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
