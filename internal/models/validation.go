package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks input rejected by the employee schema.
var ErrValidation = errors.New("Employee validation failed") //nolint:staticcheck,revive // surfaced to clients as is

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks the create input against the employee schema.
func (in EmployeeInput) Validate() error {
	return validateStruct(in)
}

// Validate checks only the fields present in the patch.
func (p EmployeePatch) Validate() error {
	return validateStruct(p)
}

func validateStruct(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		messages = append(messages, fieldMessage(fieldErr))
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, ", "))
}

func fieldMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return field + ": is required"
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s: must be at least %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s: must be at least %s", field, err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s: must not exceed %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s: must not exceed %s", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s: `%v` is not a valid enum value, expected one of: %s", field, err.Value(), err.Param())
	case "email":
		return field + ": must be a valid email address"
	case "number":
		return field + ": must contain digits only"
	case "url", "url|eq=":
		return field + ": must be a valid URL"
	default:
		return fmt.Sprintf("%s: failed on %s", field, err.Tag())
	}
}
