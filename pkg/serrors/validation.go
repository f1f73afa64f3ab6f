package serrors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps DTO field names to structured errors.
type ValidationErrors map[string]*BaseError

func NewFieldRequiredError(field, localeKey string) *BaseError {
	return NewError("FIELD_REQUIRED", fmt.Sprintf("%s is required", field), localeKey)
}

func NewInvalidFieldError(field, localeKey string) *BaseError {
	return NewError("FIELD_INVALID", fmt.Sprintf("%s is invalid", field), localeKey)
}

// ProcessValidatorErrors converts go-playground validator errors into
// ValidationErrors, deriving a locale key per field through getFieldLocaleKey.
func ProcessValidatorErrors(
	errs validator.ValidationErrors,
	getFieldLocaleKey func(field string) string,
) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fieldErr := range errs {
		key := getFieldLocaleKey(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			out[fieldErr.Field()] = NewFieldRequiredError(fieldErr.Field(), key)
		default:
			out[fieldErr.Field()] = NewInvalidFieldError(fieldErr.Field(), key)
		}
	}
	return out
}
