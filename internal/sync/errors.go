package sync

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldError is used to indicate an error with a specific entity field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError rejects a mutation before it reaches the store. The
// caller is expected to revert its displayed value to the last
// known-good one; the store and index are untouched.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(msg string, flds ...FieldError) error {
	return &ValidationError{Err: errors.New(msg), Fields: flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return "validation failed"
	}
	return err.Err.Error()
}

// IsValidation reports whether err is a rejected-mutation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// wrapValidator converts go-playground validation errors into the
// package's own taxonomy so callers see one error shape.
func wrapValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	flds := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: "failed " + fe.Tag() + " check"})
	}
	return &ValidationError{Err: err, Fields: flds}
}
