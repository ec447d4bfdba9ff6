package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	var ve ValidationError
	assert.NoError(t, ve.Err())

	ve.Add("build.modes", "must list at least one mode")
	assert.EqualError(t, ve.Err(), "validation failed: build.modes: must list at least one mode")

	ve.Addf("build.out_dir", "bad value %q", "")
	err := ve.Err()
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t, "validation failed:\n - build.modes: must list at least one mode\n - build.out_dir: bad value \"\"", err.Error())
}

func TestFieldErrorWithoutField(t *testing.T) {
	assert.Equal(t, "boom", FieldError{Message: "boom"}.Error())
}
