package testevents_test

import "github.com/okian/courtvision/internal/domain/model"

func defaultCal() model.CourtCalibration { return model.DefaultCalibration() }

// withID copies the id of got onto want so counters can be compared whole.
func withID(want, got model.SessionStats) model.SessionStats {
	want.ID = got.ID
	return want
}
