package session_test

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/courtvision/internal/domain/model"
)

type fakeDetector struct {
	mu      sync.Mutex
	starts  int
	stops   int
	lastCal model.CourtCalibration
}

func (d *fakeDetector) StartSession(_ context.Context, cal model.CourtCalibration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts++
	d.lastCal = cal
}

func (d *fakeDetector) StopSession() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
}

func (d *fakeDetector) counts() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts, d.stops
}

type fakeFrames struct {
	mu       sync.Mutex
	running  bool
	startErr error
	starts   int
}

func (f *fakeFrames) StartRunning(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeFrames) StopRunning() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
}

func (f *fakeFrames) isRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

type failingHistory struct{}

var errDiskFull = errors.New("disk full")

func (failingHistory) Prepend(context.Context, model.SessionRecord) error  { return errDiskFull }
func (failingHistory) List(context.Context) ([]model.SessionRecord, error) { return nil, nil }
