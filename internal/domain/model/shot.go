package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShotResult is the outcome of a shot attempt.
type ShotResult string

// Shot results.
const (
	Make ShotResult = "make"
	Miss ShotResult = "miss"
)

// ParseShotResult parses a result name.
func ParseShotResult(s string) (ShotResult, error) {
	switch ShotResult(s) {
	case Make, Miss:
		return ShotResult(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResult, s)
}

// UnmarshalText rejects anything other than make or miss.
func (r *ShotResult) UnmarshalText(text []byte) error {
	v, err := ParseShotResult(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// DistanceClass classifies where a shot was taken from.
type DistanceClass string

// Distance classes.
const (
	DistanceUnknown    DistanceClass = "unknown"
	DistanceTwoPoint   DistanceClass = "twoPoint"
	DistanceThreePoint DistanceClass = "threePoint"
	DistanceFreeThrow  DistanceClass = "freeThrow"
)

// AllDistanceClasses lists every class in display order.
func AllDistanceClasses() []DistanceClass {
	return []DistanceClass{DistanceUnknown, DistanceTwoPoint, DistanceThreePoint, DistanceFreeThrow}
}

// ParseDistanceClass parses a class name; the empty string maps to unknown.
func ParseDistanceClass(s string) (DistanceClass, error) {
	switch DistanceClass(s) {
	case "":
		return DistanceUnknown, nil
	case DistanceUnknown, DistanceTwoPoint, DistanceThreePoint, DistanceFreeThrow:
		return DistanceClass(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDistanceClass, s)
}

// UnmarshalText rejects unknown class names.
func (d *DistanceClass) UnmarshalText(text []byte) error {
	v, err := ParseDistanceClass(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// DisplayName is the short label shown next to a shot.
func (d DistanceClass) DisplayName() string {
	switch d {
	case DistanceTwoPoint:
		return "2PT"
	case DistanceThreePoint:
		return "3PT"
	case DistanceFreeThrow:
		return "FT"
	default:
		return "Unknown"
	}
}

// ShotEvent is one recorded attempt. It is immutable once constructed.
type ShotEvent struct {
	ID            uuid.UUID     `json:"id"`
	Timestamp     time.Time     `json:"timestamp"`
	Result        ShotResult    `json:"result"`
	DistanceClass DistanceClass `json:"distance_class"`
}

// NewShotEvent stamps a new event with a fresh id and the current time.
func NewShotEvent(result ShotResult, class DistanceClass) ShotEvent {
	return NewShotEventAt(result, class, time.Now())
}

// NewShotEventAt is NewShotEvent with an explicit timestamp.
func NewShotEventAt(result ShotResult, class DistanceClass, ts time.Time) ShotEvent {
	if class == "" {
		class = DistanceUnknown
	}
	return ShotEvent{
		ID:            uuid.New(),
		Timestamp:     ts,
		Result:        result,
		DistanceClass: class,
	}
}

// Made reports whether the attempt went in.
func (e ShotEvent) Made() bool { return e.Result == Make }
