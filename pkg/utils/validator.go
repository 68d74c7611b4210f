package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/imRyuukii/LoginPage/pkg/errors"
)

// Validator holds the singleton instance of the validator.
var defaultValidator *validator.Validate

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

func init() {
	defaultValidator = validator.New()
	_ = defaultValidator.RegisterValidation("notblank", validateNotBlank)
}

// ValidateStruct validates a struct using the default validator.
// It returns an invalid_request AppError listing each failing field.
func ValidateStruct(s interface{}) *errors.AppError {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ErrInvalidRequest("invalid request").WithCause(err)
	}

	appErr := errors.ErrInvalidRequest(firstMessage(validationErrors))
	for _, fe := range validationErrors {
		appErr = appErr.WithMetadata(toSnakeCase(fe.Field()), formatValidationError(fe))
	}
	return appErr
}

func firstMessage(errs validator.ValidationErrors) string {
	fe := errs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return "All fields are required."
	case "eqfield":
		return "Passwords do not match."
	}
	return fmt.Sprintf("%s %s", toSnakeCase(fe.Field()), formatValidationError(fe))
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return ValidateNotEmpty(fl.Field().String())
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return fmt.Sprintf("must match %s", toSnakeCase(fe.Param()))
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

// toSnakeCase converts a string from CamelCase to snake_case.
func toSnakeCase(str string) string {
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}

// ValidateNotEmpty checks if a string is not empty.
func ValidateNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}
