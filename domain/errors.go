package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped) when a station, train or audio reference does not exist
var ErrNotFound = errors.New("not found")

// ErrAudioUnavailable is returned when the audio host answers with a non-success status
var ErrAudioUnavailable = errors.New("audio file unavailable")

// ValidationError reports a rejected input: missing field, bad enum value,
// disallowed file, or a duplicate unique key
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError wraps a transport failure talking to the audio host
type UpstreamError struct {
	URL string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NotFoundf wraps ErrNotFound with a description of what was looked up
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
