package testevents

import "errors"

var (
	// ErrUnhealthy is returned when the service health check fails.
	ErrUnhealthy = errors.New("service unhealthy")
	// ErrUnexpectedStatus is returned for a response with an unexpected code.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrVerification is returned when the archived record disagrees with
	// the submitted shots.
	ErrVerification = errors.New("verification failed")
)
