package board

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a board that cannot be built from the given
// dimensions or alphabet. It is never corrected silently.
type ConfigurationError struct {
	// Field names the offending input ("width", "height", "alphabet", ...).
	Field string

	// Message is a human-readable description.
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

// IndexError reports a tile index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("tile index %d out of range [0, %d)", e.Index, e.Len)
}

// InvalidTransitionError reports an illegal tile status change. The engine's
// guards never request one, so seeing this error means a bug.
type InvalidTransitionError struct {
	Index int
	From  Status
	Op    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("tile %d: cannot %s from %s", e.Index, e.Op, e.From)
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsIndexError reports whether err wraps an *IndexError.
func IsIndexError(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}

// IsInvalidTransition reports whether err wraps an *InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}

func configErr(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
