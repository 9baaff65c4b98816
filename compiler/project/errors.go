package project

import (
	"errors"
	"strings"
)

// ErrResolution indicates a configuration that could not be resolved.
var ErrResolution = errors.New("photon: config resolution failed")

// ResolutionError represents a datasource or generator block that could not
// be resolved.
type ResolutionError struct {
	Block    string // Block name
	Property string // Property name (if applicable)
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("photon: config error")
	if e.Block != "" {
		b.WriteString(" in ")
		b.WriteString(e.Block)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ResolutionError.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}
