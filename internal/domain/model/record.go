package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// SessionRecord is the archived snapshot of a finished session.
// Records are never mutated after construction.
type SessionRecord struct {
	ID     uuid.UUID    `json:"id"`
	Date   time.Time    `json:"date"`
	Stats  SessionStats `json:"stats"`
	Events []ShotEvent  `json:"events"`
}

// NewSessionRecord builds a record from the session's final state. The
// event log is copied so later changes to the caller's slice do not leak in.
func NewSessionRecord(stats SessionStats, events []ShotEvent, date time.Time) SessionRecord {
	return SessionRecord{
		ID:     uuid.New(),
		Date:   date,
		Stats:  stats,
		Events: slices.Clone(events),
	}
}

// Clone returns a copy whose event slice is not shared with r.
func (r SessionRecord) Clone() SessionRecord {
	r.Events = slices.Clone(r.Events)
	return r
}
