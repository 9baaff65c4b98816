package compiler

import (
	"errors"
	"fmt"
)

// ErrFileSystem is returned when materializing a client fails.
var ErrFileSystem = errors.New("photon: file system error")

// FileSystemError reports a failed write during materialization.
type FileSystemError struct {
	Phase string // "write", "copy-runtime", "declaration"
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *FileSystemError) Error() string {
	return fmt.Sprintf("photon: %s %s: %v", e.Phase, e.Path, e.Cause)
}

// Unwrap returns the underlying error.
func (e *FileSystemError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrFileSystem.
func (e *FileSystemError) Is(target error) bool {
	return target == ErrFileSystem
}

// IsFileSystemError reports whether the error is a FileSystemError.
func IsFileSystemError(err error) bool {
	var fsErr *FileSystemError
	return errors.As(err, &fsErr)
}
