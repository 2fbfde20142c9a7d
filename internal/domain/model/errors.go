package model

import "errors"

// Sentinel kinds for parsing domain values.
var (
	ErrUnknownResult        = errors.New("unknown shot result")
	ErrUnknownDistanceClass = errors.New("unknown distance class")
)
