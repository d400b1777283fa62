package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,24}$`)

// Validator wraps go-playground/validator with service-specific rules.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	validate := validator.New()

	// Codeforces handles: letters, digits, underscore, dot, dash.
	_ = validate.RegisterValidation("cf_handle", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: validate}
}

// Validate validates a struct and returns field-level errors.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidationError describes a single failed field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasErrors reports whether any validation failed.
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// ToValidationErrors converts validator errors into the API error shape.
func ToValidationErrors(err error) ValidationErrors {
	var result ValidationErrors

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "request", Message: err.Error()}}
	}

	for _, fe := range validationErrs {
		result = append(result, ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: messageForTag(fe),
		})
	}
	return result
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "cf_handle":
		return "must be a valid Codeforces handle"
	default:
		return fmt.Sprintf("failed validation on %s", fe.Tag())
	}
}
