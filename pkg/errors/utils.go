package errors

import (
	"fmt"
	"strings"
)

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code.Equals(code)
}

// GetContext extracts the context map from a structured error
func GetContext(err error) map[string]string {
	if e, ok := err.(*Error); ok {
		return e.Context
	}
	return nil
}

// GetCode returns the error code string, or "" for foreign errors
func GetCode(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code.String()
	}
	return ""
}

// FormatError renders an error with code, context and cause for logging
func FormatError(err error) string {
	e, ok := err.(*Error)
	if !ok {
		return err.Error()
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("Code: %s", e.Code))
	parts = append(parts, fmt.Sprintf("Message: %s", e.Message))
	if len(e.Context) > 0 {
		parts = append(parts, "Context:")
		for k, v := range e.Context {
			parts = append(parts, fmt.Sprintf("  %s: %v", k, v))
		}
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}
	return strings.Join(parts, "\n")
}

// AsError converts any error to the internal *Error format.
// InternalError types are transformed via Transform(), *Error values are
// returned as-is, and anything else is wrapped as a generic internal error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if ie, ok := err.(InternalError); ok {
		return ie.Transform()
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return New(CommonInternal, err.Error(), err)
}
