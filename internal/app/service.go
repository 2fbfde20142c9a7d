// Package service wires the session controller to its collaborators and
// exposes the operations the HTTP API and CLI need.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/courtvision/internal/adapters/apiclient"
	"github.com/okian/courtvision/internal/adapters/camera"
	eventqueue "github.com/okian/courtvision/internal/adapters/mq/queue"
	"github.com/okian/courtvision/internal/adapters/mq/worker"
	"github.com/okian/courtvision/internal/adapters/repository"
	"github.com/okian/courtvision/internal/domain/detection"
	"github.com/okian/courtvision/internal/domain/insights"
	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/internal/session"
	"github.com/okian/courtvision/pkg/logger"
	"github.com/okian/courtvision/pkg/metrics"
)

const (
	defaultQueueSize = 1024
	defaultFrameRate = 30

	pumpShutdownTimeout = 5 * time.Second

	// InsightsUnavailableMessage is shown when insights cannot be loaded.
	InsightsUnavailableMessage = "Unable to load AI feedback right now."
)

// Service owns the running components of one courtvision instance.
type Service struct {
	mu sync.RWMutex

	// Core components
	controller *session.Controller
	pipeline   detection.Pipeline
	frames     *camera.SyntheticSource
	queue      *eventqueue.InMemoryQueue
	pump       *worker.Pump
	history    repository.Store
	sqlite     *repository.SQLiteStore
	insights   insights.Provider

	// Configuration
	queueSize       int
	mockShots       bool
	mockInterval    time.Duration
	frameRate       int
	insightsLatency time.Duration
	historyLimit    int
	historyDBPath   string
	apiBaseURL      string

	// State
	started   bool
	cancel    context.CancelFunc
	bridgeEnd chan struct{}

	logger logger.Logger
}

// Summary is the post-session view of one archived record.
type Summary struct {
	Record               model.SessionRecord `json:"record"`
	FieldGoalPercentage  float64             `json:"field_goal_percentage"`
	ThreePointPercentage float64             `json:"three_point_percentage"`
	FreeThrowPercentage  float64             `json:"free_throw_percentage"`
	Insights             string              `json:"insights"`
	ErrorMessage         string              `json:"error_message,omitempty"`
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:       defaultQueueSize,
		mockShots:       true,
		mockInterval:    detection.DefaultInterval,
		frameRate:       defaultFrameRate,
		insightsLatency: insights.DefaultLatency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds and starts every component.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting courtvision service...")

	if err := s.openHistory(ctx); err != nil {
		return err
	}
	if err := s.buildInsights(); err != nil {
		s.closeHistory(ctx)
		return err
	}
	if s.pipeline == nil {
		if s.mockShots {
			s.pipeline = detection.NewMockPipeline(detection.WithInterval(s.mockInterval))
		} else {
			s.pipeline = detection.NewNoopDetector()
		}
	}

	// The frame handler reads the calibration through the controller, so the
	// controller is assigned before the source can produce anything.
	pipeline := s.pipeline
	var controller *session.Controller
	s.frames = camera.NewSyntheticSource(func(fctx context.Context, f camera.Frame) {
		pipeline.ProcessFrame(fctx, f, controller.Calibration())
	}, camera.WithFrameRate(s.frameRate))
	controller = session.New(
		session.WithDetector(s.pipeline),
		session.WithFrameSource(s.frames),
		session.WithHistory(s.history),
	)
	s.controller = controller

	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.pump = worker.NewPump(s.queue, s.controller, worker.WithName("shot-pump"))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.bridgeEnd = make(chan struct{})
	go s.pump.Run(runCtx)
	go s.bridge(runCtx, s.pipeline.Events(), s.bridgeEnd)

	s.started = true
	s.logger.Info(ctx, "courtvision service started",
		logger.Int("queueSize", s.queueSize),
		logger.Bool("mockShots", s.mockShots),
		logger.Bool("persistentHistory", s.sqlite != nil),
	)
	return nil
}

// Stop ends any running session, drains the pump and releases resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping courtvision service...")

	if s.controller.State() == session.Active {
		if _, err := s.controller.EndSession(ctx); err != nil {
			s.logger.Warn(ctx, "end session on shutdown", logger.Error(err))
		}
	}

	s.cancel()
	<-s.bridgeEnd
	_ = s.queue.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, pumpShutdownTimeout)
	defer cancel()
	if err := s.pump.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "pump shutdown", logger.Error(err))
	}

	s.closeHistory(ctx)
	s.started = false
	s.logger.Info(ctx, "courtvision service stopped")
}

// StartSession begins a session with cal.
func (s *Service) StartSession(ctx context.Context, cal model.CourtCalibration) error {
	c, err := s.ctrl()
	if err != nil {
		return err
	}
	return c.StartSession(ctx, cal)
}

// EndSession ends the running session and returns its archived record, or
// nil when nothing was recorded.
func (s *Service) EndSession(ctx context.Context) (*model.SessionRecord, error) {
	c, err := s.ctrl()
	if err != nil {
		return nil, err
	}
	return c.EndSession(ctx)
}

// RegisterManualShot records a user-entered shot.
func (s *Service) RegisterManualShot(ctx context.Context, result model.ShotResult, class model.DistanceClass) (model.ShotEvent, error) {
	c, err := s.ctrl()
	if err != nil {
		return model.ShotEvent{}, err
	}
	return c.RegisterManualShot(ctx, result, class)
}

// Snapshot returns the current session state.
func (s *Service) Snapshot() (session.Snapshot, error) {
	c, err := s.ctrl()
	if err != nil {
		return session.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// History returns archived sessions, most recent first.
func (s *Service) History(ctx context.Context) ([]model.SessionRecord, error) {
	c, err := s.ctrl()
	if err != nil {
		return nil, err
	}
	return c.History(ctx)
}

// Summary loads the record with id and asks the insights provider for
// feedback. A provider failure is reported in ErrorMessage, not as an error.
func (s *Service) Summary(ctx context.Context, id uuid.UUID) (Summary, error) {
	s.mu.RLock()
	history, provider, started := s.history, s.insights, s.started
	s.mu.RUnlock()
	if !started {
		return Summary{}, ErrNotStarted
	}

	rec, err := history.Get(ctx, id)
	if err != nil {
		return Summary{}, fmt.Errorf("load session record %s: %w", id, err)
	}

	out := Summary{
		Record:               rec,
		FieldGoalPercentage:  rec.Stats.FieldGoalPercentage(),
		ThreePointPercentage: rec.Stats.ThreePointPercentage(),
		FreeThrowPercentage:  rec.Stats.FreeThrowPercentage(),
	}
	text, err := provider.FetchInsights(ctx, rec.Stats)
	if err != nil {
		metrics.RecordCollaboratorError("insights")
		s.logger.Warn(ctx, "insights unavailable", logger.String("record_id", id.String()), logger.Error(err))
		out.ErrorMessage = InsightsUnavailableMessage
		return out, nil
	}
	out.Insights = text
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"queueSize":         s.queueSize,
		"mockShots":         s.mockShots,
		"persistentHistory": s.historyDBPath != "",
	}

	if s.started {
		snap := s.controller.Snapshot()
		stats["state"] = snap.State.String()
		stats["sessionAttempts"] = snap.Stats.TotalAttempts
		stats["sessionMakes"] = snap.Stats.TotalMakes
		stats["queueLength"] = s.queue.Len(ctx)
		stats["historySize"] = s.history.Count(ctx)
		stats["shotsPumped"] = s.pump.Processed()
		stats["framesProduced"] = s.frames.Produced()
		stats["framesDropped"] = s.frames.Dropped()
	}
	return stats
}

func (s *Service) ctrl() (*session.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.controller, nil
}

// bridge forwards detected shots into the queue until ctx is done.
func (s *Service) bridge(ctx context.Context, events <-chan model.ShotEvent, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			err := s.queue.Enqueue(ctx, eventqueue.Submission{Source: "detector", Event: e})
			if err == nil {
				continue
			}
			if errors.Is(err, eventqueue.ErrFull) {
				metrics.RecordShotDropped("queue_full")
			}
			s.logger.Warn(ctx, "detected shot not queued",
				logger.String("event_id", e.ID.String()),
				logger.Error(err),
			)
		}
	}
}

func (s *Service) openHistory(ctx context.Context) error {
	if s.historyDBPath == "" {
		s.history = repository.NewMemoryStore(repository.WithLimit(s.historyLimit))
		return nil
	}
	store, err := repository.OpenSQLite(ctx, s.historyDBPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	s.sqlite = store
	s.history = store
	return nil
}

func (s *Service) closeHistory(ctx context.Context) {
	if s.sqlite == nil {
		return
	}
	if err := s.sqlite.Close(); err != nil {
		s.logger.Error(ctx, "close history", logger.Error(err))
	}
	s.sqlite = nil
}

func (s *Service) buildInsights() error {
	if s.insights != nil {
		return nil
	}
	if s.apiBaseURL == "" {
		s.insights = insights.NewMockProvider(insights.WithLatency(s.insightsLatency))
		return nil
	}
	client, err := apiclient.New(s.apiBaseURL)
	if err != nil {
		return fmt.Errorf("insights client: %w", err)
	}
	s.insights = insights.NewRemoteProvider(client)
	return nil
}
