package testevents

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/courtvision/internal/domain/model"
)

// verifyRecord checks that rec holds every accepted shot and that its
// counters agree with its own events. Detected shots from a mock pipeline
// may add events, so the totals are checked as lower bounds against the
// generated tally only when every shot was accepted.
func verifyRecord(rec *model.SessionRecord, stats *Stats) error {
	if rec == nil {
		if stats.ShotsAccepted == 0 {
			return nil
		}
		return fmt.Errorf("%w: %d shots accepted but nothing archived", ErrVerification, stats.ShotsAccepted)
	}

	seen := make(map[uuid.UUID]struct{}, len(rec.Events))
	for _, e := range rec.Events {
		seen[e.ID] = struct{}{}
	}
	for _, id := range stats.Accepted {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: accepted shot %s missing from record", ErrVerification, id)
		}
	}

	tally := model.SessionStats{ID: rec.Stats.ID}
	for _, e := range rec.Events {
		tally.Record(e)
	}
	if tally != rec.Stats {
		return fmt.Errorf("%w: record counters %+v do not match its events %+v", ErrVerification, rec.Stats, tally)
	}

	if stats.ShotsFailed == 0 {
		exp := stats.Expected
		got := rec.Stats
		if got.TotalAttempts < exp.TotalAttempts || got.TotalMakes < exp.TotalMakes ||
			got.ThreePointAttempts < exp.ThreePointAttempts || got.ThreePointMakes < exp.ThreePointMakes ||
			got.FreeThrowAttempts < exp.FreeThrowAttempts || got.FreeThrowMakes < exp.FreeThrowMakes {
			return fmt.Errorf("%w: record counters %+v below submitted %+v", ErrVerification, got, exp)
		}
	}
	return nil
}
