package framecap

import (
	"errors"
	"fmt"
)

// Error types.
var (
	// ErrInvalidParams is the error returned when capture parameters cannot
	// produce a valid timeline.
	ErrInvalidParams = errors.New("invalid capture parameters")

	// ErrNoCanvas is the error returned when the canvas selector does not
	// match a canvas element.
	ErrNoCanvas = errors.New("no canvas")

	// ErrInvalidDataURL is the error returned when a canvas returns a
	// malformed data URL.
	ErrInvalidDataURL = errors.New("invalid data url")

	// ErrInvalidOutput is the error returned when a FrameOutput has neither
	// a directory nor a stream, or has an unusable file name pattern.
	ErrInvalidOutput = errors.New("invalid frame output")
)

// NavigationError is the error returned when the page could not be loaded
// within the retry budget.
type NavigationError struct {
	URL      string
	Attempts int
	Err      error
}

// Error satisfies the error interface.
func (err *NavigationError) Error() string {
	return fmt.Sprintf("unable to load %s after %d attempt(s): %v", err.URL, err.Attempts, err.Err)
}

// Unwrap returns the error of the last attempt.
func (err *NavigationError) Unwrap() error {
	return err.Err
}
