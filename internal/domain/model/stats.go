package model

import "github.com/google/uuid"

// SessionStats holds running counters for one session.
//
// Invariants maintained by Record:
//
//	TotalMakes <= TotalAttempts
//	ThreePointMakes <= ThreePointAttempts <= TotalAttempts
//	FreeThrowMakes <= FreeThrowAttempts <= TotalAttempts
type SessionStats struct {
	ID                 uuid.UUID `json:"id"`
	TotalAttempts      int       `json:"total_attempts"`
	TotalMakes         int       `json:"total_makes"`
	ThreePointAttempts int       `json:"three_point_attempts"`
	ThreePointMakes    int       `json:"three_point_makes"`
	FreeThrowAttempts  int       `json:"free_throw_attempts"`
	FreeThrowMakes     int       `json:"free_throw_makes"`
}

// NewSessionStats returns zeroed counters with a fresh id.
func NewSessionStats() SessionStats {
	return SessionStats{ID: uuid.New()}
}

// Record folds one event into the counters. Two-point and unknown shots
// only touch the totals.
func (s *SessionStats) Record(e ShotEvent) {
	made := e.Made()

	s.TotalAttempts++
	if made {
		s.TotalMakes++
	}

	switch e.DistanceClass {
	case DistanceThreePoint:
		s.ThreePointAttempts++
		if made {
			s.ThreePointMakes++
		}
	case DistanceFreeThrow:
		s.FreeThrowAttempts++
		if made {
			s.FreeThrowMakes++
		}
	}
}

// FieldGoalPercentage is TotalMakes/TotalAttempts, or 0 with no attempts.
func (s SessionStats) FieldGoalPercentage() float64 {
	return ratio(s.TotalMakes, s.TotalAttempts)
}

// ThreePointPercentage is the three-point make ratio, or 0 with no attempts.
func (s SessionStats) ThreePointPercentage() float64 {
	return ratio(s.ThreePointMakes, s.ThreePointAttempts)
}

// FreeThrowPercentage is the free-throw make ratio, or 0 with no attempts.
func (s SessionStats) FreeThrowPercentage() float64 {
	return ratio(s.FreeThrowMakes, s.FreeThrowAttempts)
}

func ratio(makes, attempts int) float64 {
	if attempts <= 0 {
		return 0
	}
	return float64(makes) / float64(attempts)
}
