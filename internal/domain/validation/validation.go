// Package validation defines the error type used for caller-supplied
// parameter problems. Validation errors are raised before any bridge call
// and always name the offending parameter.
package validation

import (
	"fmt"
	"strings"
)

// Error describes a rejected parameter.
type Error struct {
	Param   string
	Message string
	Allowed []string
}

func (e *Error) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %s: %s (accepted: %s)", e.Param, e.Message, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

// Newf builds a validation error for a parameter.
func Newf(param, format string, args ...any) *Error {
	return &Error{Param: param, Message: fmt.Sprintf(format, args...)}
}

// NotInEnum builds a validation error for a value outside an enumerated set.
func NotInEnum(param, got string, allowed []string) *Error {
	return &Error{
		Param:   param,
		Message: fmt.Sprintf("unrecognized value %q", got),
		Allowed: allowed,
	}
}
