package corpus

import (
	"errors"
	"fmt"
)

// ErrLoadFailure is matched by every error that left the corpus unloaded
var ErrLoadFailure = errors.New("corpus load failed")

// ErrLineTooLong marks a line longer than the per-line limit
var ErrLineTooLong = errors.New("line exceeds maximum length")

// LoadError is returned when the corpus bytes could not be fetched or read
type LoadError struct {
	Source string
	Name   string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Name, e.Source, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailure, e.Err}
}

// LineError describes one malformed corpus line. It never aborts a load.
type LineError struct {
	Line    int
	Content string
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
