// Package testevents drives a running courtvision server over HTTP: it
// starts a session, submits randomly generated shots, ends the session and
// verifies the archived record against what was sent.
package testevents

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/courtvision/internal/domain/model"
)

// Defaults for a drive run.
const (
	DefaultBaseURL = "http://localhost:9080"
	DefaultShots   = 200
	DefaultWorkers = 4
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration for one drive run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumShots   int           // Number of shots to submit
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Seed for shot generation; 0 picks one from the clock
	OutputFile string        // Optional JSON dump of the archived record
	Verbose    bool          // Log every submission
}

// Shot is the body posted to /shots.
type Shot struct {
	Result        model.ShotResult    `json:"result"`
	DistanceClass model.DistanceClass `json:"distance_class"`
}

// endResponse mirrors the /session/end payload.
type endResponse struct {
	Archived bool                 `json:"archived"`
	Record   *model.SessionRecord `json:"record"`
}

// errorResponse mirrors the API error payload.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stats holds run statistics.
type Stats struct {
	ShotsGenerated int
	ShotsAccepted  int
	ShotsFailed    int
	Expected       model.SessionStats // tally of the generated shots
	Accepted       []uuid.UUID        // ids the server assigned to accepted shots
	Record         *model.SessionRecord
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
