package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := NotFound("review", 42)
	assert.Equal(t, "NOT_FOUND: review with id 42 not found: resource not found", e.Error())

	bare := &AppError{Code: "X", Message: "boom"}
	assert.Equal(t, "X: boom", bare.Error())
}

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	assert.ErrorIs(t, NotFound("review", 1), ErrNotFound)
	assert.ErrorIs(t, InvalidInput("bad"), ErrInvalidInput)
	assert.ErrorIs(t, InvalidFilter("bad range"), ErrInvalidFilter)

	cause := errors.New("boom")
	assert.ErrorIs(t, Internal(cause), cause)
}

func TestWrap(t *testing.T) {
	base := errors.New("base")
	wrapped := Wrap(base, "loading reviews")
	assert.Equal(t, "loading reviews: base", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error status wins", NotFound("review", 1), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("outer: %w", InvalidFilter("bad")), http.StatusBadRequest},
		{"not found sentinel", ErrNotFound, http.StatusNotFound},
		{"invalid input sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"invalid filter sentinel", ErrInvalidFilter, http.StatusBadRequest},
		{"frozen builder sentinel", ErrFrozenBuilder, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
