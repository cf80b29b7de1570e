package errors

import (
	"fmt"
)

// Common error types
var (
	// Configuration errors - fatal, surfaced to the caller immediately
	ErrMissingAPIKey       = New("API key is required")
	ErrInvalidAPIKey       = New("invalid API key format")
	ErrInvalidWindowConfig = New("invalid windowing configuration")
	ErrDimensionMismatch   = New("embedding dimension mismatch")
	ErrStoreExists         = New("segment store already exists")
	ErrUnknownMetric       = New("unknown distance metric")
	ErrUnknownBackend      = New("unknown store backend")

	// Store errors
	ErrStoreUnavailable = New("segment store unavailable")
	ErrQueryFailed      = New("query failed")
	ErrInsertFailed     = New("insert failed")

	// External collaborator errors
	ErrTranscriptUnavailable = New("transcript unavailable")
	ErrEmbeddingFailed       = New("embedding generation failed")
	ErrSynthesisFailed       = New("answer synthesis failed")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WrapSentinel attaches a sentinel to a concrete failure so callers can match
// with errors.Is while keeping the underlying cause in the message chain.
func WrapSentinel(sentinel *Error, err error) error {
	if err == nil {
		return sentinel
	}
	return &Error{message: sentinel.message, cause: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}
