package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	ErrInvalidURL = errors.New("invalid api url")
	ErrTransport  = errors.New("api transport error")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api server error: status %d", e.Code)
}
