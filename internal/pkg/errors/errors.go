package errors

import (
	"errors"
	"fmt"
)

// Sentinels for the expected, typed failures of the finance engine. Callers
// classify with errors.Is; the HTTP layer maps them in platform/apierr.
var (
	// ErrValidation is malformed input: negative amounts, foreign cost codes,
	// degenerate line lists. The caller fixes the input, never retries.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState is an operation against a budget in the wrong status.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidTransition is an illegal status change.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotFound covers missing rows and rows outside the caller's org.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a lost concurrent race; the engine self-heals where the
	// conflicting write reached the same effective state.
	ErrConflict = errors.New("conflict")
)

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func InvalidTransitionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
