package item

import (
	"errors"
	"fmt"
)

// ErrInvalidName is returned when an item name cannot be used as a file name.
var ErrInvalidName = errors.New("invalid item name")

// ConfigurationError reports a root directory that cannot be prepared.
type ConfigurationError struct {
	// Root is the directory that could not be created.
	Root string
	// Cause is the underlying filesystem error.
	Cause error
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("create root directory %q: %v", e.Root, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error { return e.Cause }

// WriteError reports a record that could not be written.
type WriteError struct {
	// Item is the name (or alias) the record was addressed to.
	Item string
	// Path is the target file, empty when the name was rejected before resolving it.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error implements error.
func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("persist %q: %v", e.Item, e.Cause)
	}

	return fmt.Sprintf("persist %q to %s: %v", e.Item, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error { return e.Cause }
