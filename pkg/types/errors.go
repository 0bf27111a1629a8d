// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that an operation targeted a paper id that does not
// exist. The collection API reports absence as a bool; this sentinel is used
// at the CLI and HTTP boundaries.
var ErrNotFound = errors.New("paper not found")

// ErrStorageCorrupt marks persisted state that could not be parsed. Stores
// log it and recover with an empty collection instead of returning it.
var ErrStorageCorrupt = errors.New("stored collection is corrupt")

// ConversionError reports that a source could not be fetched or converted.
type ConversionError struct {
	Source string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Source, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ValidationError reports missing or blank required input. It is raised
// before any I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IOError reports a failure to persist or write a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
