// Package validator converts ozzo-validation failures into layered error
// codes so callers see one error taxonomy.
package validator

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/KOMKZ/go-crpt-client/errcode"
)

// Validatable anything exposing a Validate method
type Validatable interface {
	Validate() error
}

// validation failure of a request or config document
var errValidationFailed = errcode.Register(errcode.New(
	10, 1001,
	"common",
	"error.common.validation_failed",
	"validation failed",
	400,
))

// ValidateStruct validates and converts the error when it is an
// ozzo-validation result
func ValidateStruct(v Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		return ConvertValidationError(validationErrs)
	}
	return err
}

// ConvertValidationError maps field-level ozzo errors into a LayeredError
// carrying a fields map in its data
func ConvertValidationError(validationErrs validation.Errors) error {
	fields := make(map[string]string, len(validationErrs))
	for field, fieldErr := range validationErrs {
		if fieldErr != nil {
			fields[field] = fieldErr.Error()
		}
	}

	return errValidationFailed.WithData("fields", fields)
}

// IsValidationError reports whether err carries the validation failure code
func IsValidationError(err error) bool {
	return errors.Is(err, errValidationFailed)
}
