package models

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the user dismisses a file prompt. It is
	// not a failure and callers treat it as a no-op.
	ErrCancelled = errors.New("cancelled by user")

	// ErrNoDocument is returned by operations that need a loaded document.
	ErrNoDocument = errors.New("no document loaded")

	// ErrCellOutOfRange is returned when an edit addresses a missing cell.
	ErrCellOutOfRange = errors.New("cell out of range")

	// ErrLoading is returned for edits and loads that arrive while a load is
	// still populating the document.
	ErrLoading = errors.New("document is loading")
)

// IOError wraps a filesystem failure with the operation and path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}
