package model

import "time"

// Frame is one captured video frame. Data holds raw pixel bytes in
// whatever layout the source produces; detectors that do not inspect
// content may ignore it.
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	Width     int
	Height    int
	Data      []byte
}
