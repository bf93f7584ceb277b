package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

var testCode = MustNewCode("testing.something_failed")

func TestNew(t *testing.T) {
	cause := stderrors.New("underlying")
	err := New(testCode, "operation failed", cause)

	if !err.Code.Equals(testCode) {
		t.Errorf("Expected code %s, got %s", testCode, err.Code)
	}
	if err.Message != "operation failed" {
		t.Errorf("Expected message 'operation failed', got '%s'", err.Message)
	}
	if err.Cause != cause {
		t.Error("Expected cause to be preserved")
	}
	if err.Timestamp.IsZero() {
		t.Error("Expected timestamp to be set")
	}
	if len(err.Stack) == 0 {
		t.Error("Expected stack trace to be captured")
	}
}

func TestErrorString(t *testing.T) {
	err := New(testCode, "operation failed", nil)
	if err.Error() != "operation failed" {
		t.Errorf("Expected 'operation failed', got '%s'", err.Error())
	}

	wrapped := New(testCode, "outer", stderrors.New("inner"))
	if wrapped.Error() != "outer: inner" {
		t.Errorf("Expected 'outer: inner', got '%s'", wrapped.Error())
	}
}

func TestNewf(t *testing.T) {
	err := Newf(testCode, "failed after %d attempts", 3)
	if err.Message != "failed after 3 attempts" {
		t.Errorf("Expected formatted message, got '%s'", err.Message)
	}
}

func TestWrapf(t *testing.T) {
	cause := stderrors.New("io failure")
	err := Wrapf(testCode, cause, "reading %s", "file.txt")
	if err.Message != "reading file.txt" {
		t.Errorf("Expected formatted message, got '%s'", err.Message)
	}
	if !stderrors.Is(err, cause) {
		t.Error("Expected wrapped error to unwrap to cause")
	}
}

func TestAddContext(t *testing.T) {
	err := New(testCode, "failed", nil).
		AddContext("table", "users").
		AddContext("column", "id")

	ctx := GetContext(err)
	if ctx["table"] != "users" || ctx["column"] != "id" {
		t.Errorf("Expected context to carry both keys, got %v", ctx)
	}
}

func TestIs(t *testing.T) {
	err := New(testCode, "failed", nil)
	if !Is(err, testCode) {
		t.Error("Expected Is to match the error's code")
	}
	if Is(err, CommonInternal) {
		t.Error("Expected Is to reject a different code")
	}
	if Is(stderrors.New("plain"), testCode) {
		t.Error("Expected Is to reject foreign errors")
	}
}

func TestGetCode(t *testing.T) {
	err := New(testCode, "failed", nil)
	if GetCode(err) != testCode.String() {
		t.Errorf("Expected code string, got '%s'", GetCode(err))
	}
	if GetCode(stderrors.New("plain")) != "" {
		t.Error("Expected empty code for foreign errors")
	}
}

func TestFormatError(t *testing.T) {
	err := New(testCode, "failed", stderrors.New("inner")).AddContext("key", "value")
	out := FormatError(err)

	for _, want := range []string{"Code: " + testCode.String(), "Message: failed", "key: value", "Cause: inner"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected formatted output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Error("Expected nil for nil input")
	}

	structured := New(testCode, "failed", nil)
	if AsError(structured) != structured {
		t.Error("Expected *Error to pass through unchanged")
	}

	converted := AsError(stderrors.New("plain"))
	if !converted.Code.Equals(CommonInternal) {
		t.Errorf("Expected foreign errors to convert with common.internal, got %s", converted.Code)
	}
}
