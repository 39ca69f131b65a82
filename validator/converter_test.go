package validator

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOMKZ/go-crpt-client/errcode"
)

type submitRequest struct {
	Signature string
	Capacity  int
}

func (r submitRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Signature, validation.Required),
		validation.Field(&r.Capacity, validation.Min(1)),
	)
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, ValidateStruct(submitRequest{Signature: "sig", Capacity: 5}))
}

func TestValidateStruct_Invalid(t *testing.T) {
	err := ValidateStruct(submitRequest{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	var le *errcode.LayeredError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 101001, le.Code())
	assert.Equal(t, 400, le.HTTPStatus())

	fields, ok := le.Data()["fields"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "Signature")
	assert.Contains(t, fields, "Capacity")
}

func TestIsValidationError_OtherError(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.False(t, IsValidationError(nil))
}
