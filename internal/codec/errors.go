package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("parse record")
	// ErrNilState is returned when encoding a record without a state.
	ErrNilState = errors.New("record state is not set")
)

// ParseError reports a record that could not be decoded.
type ParseError struct {
	// Field is the offending record field, empty when the document itself is malformed.
	Field string
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements error.
func (e *ParseError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, e.Message)
	}

	if e.Cause != nil {
		return fmt.Sprintf("parse record: %s: %v", msg, e.Cause)
	}

	return "parse record: " + msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is makes errors.Is(err, ErrParse) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse //nolint:errorlint // Identity comparison with the sentinel is intended.
}
