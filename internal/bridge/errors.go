package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrRendering is returned when the widget fails while handling a command
	ErrRendering = errors.New("rendering error")
	// ErrEmptyOrUnavailable is returned when an export yields no usable document.
	// Callers treat it as a normal outcome, not a failure.
	ErrEmptyOrUnavailable = errors.New("no data")
	// ErrClosed is returned by transports whose page has gone away
	ErrClosed = errors.New("bridge closed")
)

// RemoteError is an exception raised inside the widget
type RemoteError struct {
	Method  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("widget %s: %s", e.Method, e.Message)
}
