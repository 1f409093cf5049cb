package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrToolRoundLimit is returned when the model keeps requesting tools
	// past the configured round cap.
	ErrToolRoundLimit = errors.New("tool round limit exceeded")

	// ErrBusy is returned by Worker.Start while a previous turn is still
	// in flight.
	ErrBusy = errors.New("a request is already in flight")
)

// TransportError wraps a failure talking to the model server. The session
// is left exactly as it was before the failing request.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
