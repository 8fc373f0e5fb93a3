package transform

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned when the job can not run with given configuration, such as when a
// region marker is absent from the program.
var ErrConfiguration = errors.New("configuration error")

// ErrMalformedInput is returned when the program can not be parsed or transformed as given.
var ErrMalformedInput = errors.New("malformed input")

// ErrComputation is returned for degenerate transformation matrices.
var ErrComputation = errors.New("computation error")

// MarkerNotFoundError is returned when no line has the marker as its comment.
type MarkerNotFoundError struct {
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("%s: marker not found in the G-code: %q", ErrConfiguration, e.Marker)
}

func (e *MarkerNotFoundError) Unwrap() error {
	return ErrConfiguration
}
