package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two lookup/state failures the service distinguishes.
// Storage failures carry no sentinel: they are wrapped with %w and surface to
// the caller unmodified.
var (
	// ErrNotFound reports that a referenced zone, alert, or shelter does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a state-machine violation, such as resolving an
	// alert that is already resolved.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a malformed or out-of-range input value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
