package core

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// TranslateError converts raw validator errors into a ValidationError carrying
// translated per-field messages; any other error passes through unchanged.
func TranslateError(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, len(vErrs))
	for i, vErr := range vErrs {
		flds[i] = FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)}
	}
	return NewValidationError(errors.New("invalid input"), flds...)
}
