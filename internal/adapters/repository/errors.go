package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNotFound = errors.New("session record not found")
	ErrClosed   = errors.New("history store closed")
)
