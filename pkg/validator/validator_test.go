package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchRequest struct {
	Items []string `validate:"required,min=1"`
	Name  string   `validate:"max=5"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(batchRequest{Items: []string{"a"}, Name: "ok"})
	assert.NoError(t, err)
}

func TestValidate_Failure(t *testing.T) {
	err := Validate(batchRequest{Name: "much too long"})
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))

	fields := vErr.Fields()
	assert.Equal(t, "is required", fields["Items"])
	assert.Equal(t, "must be at most 5", fields["Name"])
	assert.Contains(t, vErr.Error(), "Items")
}
