package serrors

import "fmt"

// BaseError carries a stable machine-readable code alongside the human message
// and the locale key used to resolve user-facing text.
type BaseError struct {
	Code      string
	Message   string
	LocaleKey string
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMessage returns a copy of the error with a different message, keeping the
// code and locale key stable.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		Code:      e.Code,
		Message:   message,
		LocaleKey: e.LocaleKey,
	}
}

// Is matches errors by code, so sentinel instances survive wrapping.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
