// Package model contains the domain values shared by the session core:
// court calibration, shot events, running statistics and archived records.
package model

// Validity thresholds for a calibration, in normalized screen units.
const (
	minRimRadius       = 0.01
	minBackboardWidth  = 0.05
	minBackboardHeight = 0.02
)

// Point is a position in normalized [0,1] screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a normalized width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Circle describes the rim overlay. Radius is relative to the smaller of
// the preview's width and height.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Rect describes the backboard overlay.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// Line describes the optional reference line (free-throw or three-point).
type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// CourtCalibration is the calibrated court geometry. It is copied by value
// into a session when the session starts.
type CourtCalibration struct {
	Rim           Circle `json:"rim"`
	Backboard     Rect   `json:"backboard"`
	ReferenceLine *Line  `json:"reference_line,omitempty"`
}

// DefaultCalibration returns the overlay placement shown before the user
// adjusts anything.
func DefaultCalibration() CourtCalibration {
	return CourtCalibration{
		Rim: Circle{Center: Point{X: 0.5, Y: 0.3}, Radius: 0.08},
		Backboard: Rect{
			Origin: Point{X: 0.35, Y: 0.18},
			Size:   Size{Width: 0.3, Height: 0.08},
		},
		ReferenceLine: &Line{Start: Point{X: 0.2, Y: 0.7}, End: Point{X: 0.8, Y: 0.7}},
	}
}

// IsValid reports whether the calibration is usable for a session.
// Coordinates are not range-checked; only the rim and backboard extents are.
func (c CourtCalibration) IsValid() bool {
	return c.Rim.Radius > minRimRadius &&
		c.Backboard.Size.Width > minBackboardWidth &&
		c.Backboard.Size.Height > minBackboardHeight
}

// Clone returns a deep copy so the reference line is not shared.
func (c CourtCalibration) Clone() CourtCalibration {
	if c.ReferenceLine != nil {
		line := *c.ReferenceLine
		c.ReferenceLine = &line
	}
	return c
}
