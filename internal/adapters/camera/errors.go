package camera

import "errors"

// ErrUnavailable is returned when the source cannot produce frames.
var ErrUnavailable = errors.New("camera unavailable")
