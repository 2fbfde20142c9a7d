package session

import "errors"

// Sentinel errors returned by the Controller.
var (
	ErrInvalidCalibration = errors.New("invalid calibration")
	ErrSessionActive      = errors.New("session already active")
	ErrNoActiveSession    = errors.New("no active session")
	ErrArchiveFailed      = errors.New("archive session record")
	ErrStaleEvent         = errors.New("event predates the active session")
)
