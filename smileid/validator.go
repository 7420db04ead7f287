package smileid

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator for request parameter checks.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator for the parameter types of this package.
func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks params and returns a *ValidationError describing every failed field.
func (v *Validator) Validate(params any) error {
	if err := v.validate.Struct(params); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError(validationErrors)
		}
		return err
	}
	return nil
}

// ValidationError lists the parameters rejected before a request is sent.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError is one rejected parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError converts go-playground/validator errors.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fieldErrors := make([]FieldError, 0, len(errs))
	for _, err := range errs {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   err.Field(),
			Message: errorMessage(err),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}
	return &ValidationError{Errors: fieldErrors}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "smileid: validation failed"
	case 1:
		return fmt.Sprintf("smileid: validation failed: %s", ve.Errors[0].Message)
	default:
		return fmt.Sprintf("smileid: validation failed: %d errors", len(ve.Errors))
	}
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation", fe.Field())
	}
}
