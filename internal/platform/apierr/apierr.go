package apierr

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From maps the engine's error taxonomy onto HTTP. Anything outside the
// taxonomy is an infrastructure failure and surfaces as a 500.
func From(err error) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrValidation):
		return New(http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, apperrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidState):
		return New(http.StatusConflict, "invalid_state", err)
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return New(http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, apperrors.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	default:
		return New(http.StatusInternalServerError, "internal_error", err)
	}
}
