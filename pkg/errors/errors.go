package errors

import (
	"fmt"
	"runtime"
	"time"
)

// Error is the structured error carried across package boundaries.
// Code is compulsory; everything else is optional context.
type Error struct {
	Code      Code
	Message   string
	Cause     error
	Context   map[string]string
	Stack     []Frame
	Timestamp time.Time
}

// Frame represents a stack frame
type Frame struct {
	Function string
	File     string
	Line     int
}

// InternalError is implemented by package-specific error types (e.g. parse
// errors) that know how to convert themselves into an *Error.
type InternalError interface {
	error
	Transform() *Error
}

// New creates an Error with a code, message and optional cause
func New(code Code, message string, cause error) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Stack:     captureStackTrace(),
	}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

func Wrapf(code Code, err error, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...), err)
}

// AddContext attaches a key/value pair, returning the error for chaining
func (e *Error) AddContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func captureStackTrace() []Frame {
	var frames []Frame
	for i := 2; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		frames = append(frames, Frame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}
	return frames
}
