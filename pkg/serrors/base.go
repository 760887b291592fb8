package serrors

import "fmt"

// BaseError is a coded error shared across service boundaries. Code is a
// stable machine-readable identifier, Message a human-readable default.
type BaseError struct {
	Code         string
	Message      string
	LocaleKey    string
	TemplateData map[string]string
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

func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	return &BaseError{
		Code:         e.Code,
		Message:      e.Message,
		LocaleKey:    e.LocaleKey,
		TemplateData: data,
	}
}

// Is matches on Code so wrapped copies of a sentinel compare equal.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
