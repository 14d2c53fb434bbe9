package geocell

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a row with a non-null geography has no
	// tuple map entry. Callers usually treat it as a consistency violation.
	ErrNotFound = errors.New("row not found in covering index")

	// ErrDuplicateRow is returned when a row is added twice.
	ErrDuplicateRow = errors.New("row already present in covering index")

	// ErrEmptyCovering is returned when the coverer yields no cells.
	ErrEmptyCovering = errors.New("covering has no cells")

	// ErrCoveringOverflow is returned when the coverer yields more cells than allowed.
	ErrCoveringOverflow = errors.New("covering exceeds maximum cell count")

	// ErrInvalidCell is returned when the coverer yields an invalid, duplicate
	// or unsearchable cell.
	ErrInvalidCell = errors.New("invalid covering cell")

	// ErrInvalidConfig is returned by New for inconsistent level or capacity settings.
	ErrInvalidConfig = errors.New("invalid covering index configuration")
)

// ConfigError describes an invalid configuration value.
//
// It matches ErrInvalidConfig via errors.Is.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// ValidityError reports a broken invariant found by CheckValidity.
type ValidityError struct {
	Reason string
}

func (e *ValidityError) Error() string {
	return "covering index invalid: " + e.Reason
}

func invalid(format string, args ...any) *ValidityError {
	return &ValidityError{Reason: fmt.Sprintf(format, args...)}
}
