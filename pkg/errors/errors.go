package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared across the application. Filter construction and
// store contracts wrap these so callers can branch with errors.Is.
var (
	// ErrNotFound marks absent resources at the HTTP boundary. Store
	// lookups themselves report absence with a nil result, not an error.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput marks business-invalid caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidFilter marks a filter invariant violated at build time.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrFrozenBuilder marks a filter builder mutated after Build.
	ErrFrozenBuilder = errors.New("filter builder already built")

	// ErrNilReview marks a nil review reference inside a batch. This is a
	// programmer error and always fails the whole operation, unlike a
	// malformed review which is skipped.
	ErrNilReview = errors.New("nil review in batch")

	// ErrInternal marks unexpected internal failures.
	ErrInternal = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping
// for the presentation layer.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %d not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InvalidFilter creates a build-time filter validation error describing the
// violated constraint.
func InvalidFilter(message string) *AppError {
	return &AppError{
		Code:    "INVALID_FILTER",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidFilter,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrFrozenBuilder):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
