// Package session owns the lifecycle of a shooting session.
//
// The Controller is the single writer of session state. Lifecycle calls are
// serialized against each other, and every mutation of the statistics and
// the event log happens under one lock, so detected shots (delivered by the
// ingest pump) and manual shots (direct calls) never interleave. Readers get
// value copies through Snapshot.
package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/courtvision/internal/adapters/repository"
	"github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/logger"
	"github.com/okian/courtvision/pkg/metrics"
)

// State is the lifecycle state of the controller.
type State int

// Lifecycle states.
const (
	Idle State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText renders the state name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Detector is the part of the detection pipeline the controller drives.
type Detector interface {
	StartSession(ctx context.Context, cal model.CourtCalibration)
	StopSession()
}

// FrameSource is the camera the controller starts and stops.
type FrameSource interface {
	StartRunning(ctx context.Context) error
	StopRunning()
}

// History receives archived sessions and lists them most recent first.
type History interface {
	Prepend(ctx context.Context, rec model.SessionRecord) error
	List(ctx context.Context) ([]model.SessionRecord, error)
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	State       State                  `json:"state"`
	Calibration model.CourtCalibration `json:"calibration"`
	Stats       model.SessionStats     `json:"stats"`
	Events      []model.ShotEvent      `json:"events"`
	StartedAt   time.Time              `json:"started_at,omitzero"`
}

// Controller runs sessions: Idle -> Active -> Idle.
type Controller struct {
	// lifecycle serializes StartSession and EndSession including their
	// collaborator calls. It is always taken before mu.
	lifecycle sync.Mutex

	mu          sync.RWMutex
	state       State
	calibration model.CourtCalibration
	stats       model.SessionStats
	events      []model.ShotEvent
	startedAt   time.Time

	detector Detector
	frames   FrameSource
	history  History
	logger   logger.Logger
	now      func() time.Time
}

// New creates an idle controller. Without WithHistory an unbounded
// in-memory store is used.
func New(opts ...Option) *Controller {
	c := &Controller{
		calibration: model.DefaultCalibration(),
		stats:       model.NewSessionStats(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history == nil {
		c.history = repository.NewMemoryStore()
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("session")
	}
	return c
}

// StartSession begins a session with cal. An invalid calibration or an
// already active session leaves all state untouched.
func (c *Controller) StartSession(ctx context.Context, cal model.CourtCalibration) error {
	if !cal.IsValid() {
		c.logger.Warn(ctx, "invalid calibration; session not started",
			logger.Float64("rim_radius", cal.Rim.Radius),
			logger.Float64("backboard_width", cal.Backboard.Size.Width),
			logger.Float64("backboard_height", cal.Backboard.Size.Height),
		)
		metrics.RecordSessionRejected("invalid_calibration")
		return ErrInvalidCalibration
	}

	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.state == Active {
		c.mu.Unlock()
		metrics.RecordSessionRejected("session_active")
		return ErrSessionActive
	}
	c.calibration = cal.Clone()
	c.stats = model.NewSessionStats()
	c.events = nil
	c.startedAt = c.now()
	c.state = Active
	stats := c.stats
	c.mu.Unlock()

	metrics.RecordSessionStarted()
	c.logger.Info(ctx, "session started", logger.String("session_id", stats.ID.String()))

	if c.detector != nil {
		c.detector.StartSession(ctx, cal.Clone())
	}
	if c.frames != nil {
		if err := c.frames.StartRunning(ctx); err != nil {
			metrics.RecordCollaboratorError("frame_source")
			c.logger.Warn(ctx, "frame source did not start", logger.Error(err))
		}
	}
	return nil
}

// EndSession stops the active session. When at least one shot was recorded
// the session is archived and its record returned; an empty session returns
// a nil record. Stats and events stay readable until the next start.
func (c *Controller) EndSession(ctx context.Context) (*model.SessionRecord, error) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.state != Active {
		c.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	c.state = Idle
	var rec *model.SessionRecord
	if c.stats.TotalAttempts > 0 {
		r := model.NewSessionRecord(c.stats, c.events, c.now())
		rec = &r
	}
	sessionID := c.stats.ID
	c.mu.Unlock()

	if c.detector != nil {
		c.detector.StopSession()
	}
	if c.frames != nil {
		c.frames.StopRunning()
	}

	metrics.RecordSessionEnded(rec != nil)
	if rec == nil {
		c.logger.Info(ctx, "empty session ended; nothing archived", logger.String("session_id", sessionID.String()))
		return nil, nil
	}

	// The session is already Idle, so the record must land even if the
	// caller has gone away.
	if err := c.history.Prepend(context.WithoutCancel(ctx), *rec); err != nil {
		metrics.RecordCollaboratorError("history")
		c.logger.Error(ctx, "archive session record", logger.String("record_id", rec.ID.String()), logger.Error(err))
		return rec, fmt.Errorf("%w: %w", ErrArchiveFailed, err)
	}
	c.logger.Info(ctx, "session archived",
		logger.String("record_id", rec.ID.String()),
		logger.Int("attempts", rec.Stats.TotalAttempts),
		logger.Int("makes", rec.Stats.TotalMakes),
	)
	return rec, nil
}

// IngestEvent folds e into the active session. Outside a session the event
// is dropped, as is an event stamped before the current session started:
// it was detected during an earlier session and is still in flight.
func (c *Controller) IngestEvent(ctx context.Context, e model.ShotEvent) error {
	if e.DistanceClass == "" {
		e.DistanceClass = model.DistanceUnknown
	}

	c.mu.Lock()
	if c.state != Active {
		c.mu.Unlock()
		metrics.RecordShotDropped("inactive")
		c.logger.Debug(ctx, "shot dropped outside session", logger.String("event_id", e.ID.String()))
		return ErrNoActiveSession
	}
	if !e.Timestamp.IsZero() && e.Timestamp.Before(c.startedAt) {
		c.mu.Unlock()
		metrics.RecordShotDropped("stale")
		c.logger.Debug(ctx, "shot from an earlier session dropped", logger.String("event_id", e.ID.String()))
		return ErrStaleEvent
	}
	c.stats.Record(e)
	c.events = append(c.events, e)
	c.mu.Unlock()

	metrics.RecordShotIngested(string(e.Result), string(e.DistanceClass))
	return nil
}

// RegisterManualShot records a user-entered shot stamped with the current
// time.
func (c *Controller) RegisterManualShot(ctx context.Context, result model.ShotResult, class model.DistanceClass) (model.ShotEvent, error) {
	e := model.NewShotEventAt(result, class, c.now())
	if err := c.IngestEvent(ctx, e); err != nil {
		return model.ShotEvent{}, err
	}
	return e, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		State:       c.state,
		Calibration: c.calibration.Clone(),
		Stats:       c.stats,
		Events:      slices.Clone(c.events),
		StartedAt:   c.startedAt,
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Calibration returns the calibration of the current or last session.
func (c *Controller) Calibration() model.CourtCalibration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calibration.Clone()
}

// History returns archived sessions, most recent first.
func (c *Controller) History(ctx context.Context) ([]model.SessionRecord, error) {
	return c.history.List(ctx)
}
