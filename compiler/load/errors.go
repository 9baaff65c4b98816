package load

import (
	"errors"
	"strconv"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates schema text that could not be loaded.
	ErrInvalidSchema = errors.New("photon: invalid schema")
	// ErrEngine indicates a failure of the external metadata engine.
	ErrEngine = errors.New("photon: metadata engine failed")
)

// LoadError represents a schema text the metadata service rejected.
type LoadError struct {
	Line    int    // 1-based line of the offending text, 0 if unknown
	Block   string // Enclosing block name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("photon: schema error")
	if e.Line > 0 {
		b.WriteString(" at line ")
		b.WriteString(strconv.Itoa(e.Line))
	}
	if e.Block != "" {
		b.WriteString(" in ")
		b.WriteString(e.Block)
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
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// EngineError represents a failed run of the metadata engine binary.
type EngineError struct {
	Binary string
	Stderr string
	Cause  error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	var b strings.Builder
	b.WriteString("photon: metadata engine ")
	b.WriteString(e.Binary)
	b.WriteString(" failed")
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString(": ")
		b.WriteString(s)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for EngineError.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngine
}

// IsLoadError reports whether the error is a LoadError.
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr)
}

func errorf(line int, block, message string) *LoadError {
	return &LoadError{Line: line, Block: block, Message: message}
}
