package parser

import (
	"fmt"
	"strings"

	"github.com/sqldom/sqldom/pkg/errors"
)

// ErrorCategory classifies a parse error so callers can branch on the
// broad failure mode without inspecting individual codes.
type ErrorCategory string

const (
	// LexicalError covers tokenization failures: unterminated strings,
	// unbalanced parentheses
	LexicalError ErrorCategory = "lexical"

	// SyntaxError covers grammar violations in an otherwise well-tokenized
	// statement
	SyntaxError ErrorCategory = "syntax"
)

// Parse error codes. The taxonomy is closed: every parse failure maps onto
// exactly one of these.
var (
	ErrMismatchedSingleQuotes  = errors.MustNewCode("parser.lexical.mismatched_single_quotes")
	ErrMismatchedDoubleQuotes  = errors.MustNewCode("parser.lexical.mismatched_double_quotes")
	ErrMismatchedParenthesis   = errors.MustNewCode("parser.lexical.mismatched_parenthesis")
	ErrUnknownKeyword          = errors.MustNewCode("parser.syntax.unknown_keyword")
	ErrUnknownFunction         = errors.MustNewCode("parser.syntax.unknown_function")
	ErrInvalidKeywordPlacement = errors.MustNewCode("parser.syntax.invalid_keyword_placement")
	ErrMalformedCommand        = errors.MustNewCode("parser.syntax.malformed_command")
	ErrExpectedInteger         = errors.MustNewCode("parser.syntax.expected_integer")
)

// ParseError carries the structured result of a failed parse: an error code
// from the closed taxonomy, the offending fragment, and what the parser was
// prepared to accept instead.
type ParseError struct {
	Code     errors.Code
	Message  string
	Found    string   // the offending token text, "" at end of input
	Expected []string // token spellings that would have been accepted
	Category ErrorCategory
}

var _ errors.InternalError = (*ParseError)(nil)

func (pe *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error: %s", pe.Message)
	if pe.Found != "" {
		fmt.Fprintf(&b, " (found %q)", pe.Found)
	}
	if len(pe.Expected) > 0 {
		fmt.Fprintf(&b, ", expected %s", strings.Join(pe.Expected, " | "))
	}
	return b.String()
}

// Transform converts the parse error into the shared structured error type
func (pe *ParseError) Transform() *errors.Error {
	err := errors.New(pe.Code, pe.Message, nil).
		AddContext("category", string(pe.Category))
	if pe.Found != "" {
		err.AddContext("found", pe.Found)
	}
	if len(pe.Expected) > 0 {
		err.AddContext("expected", strings.Join(pe.Expected, ", "))
	}
	return err
}

func newLexicalError(code errors.Code, message string, found string) *ParseError {
	return &ParseError{
		Code:     code,
		Message:  message,
		Found:    found,
		Category: LexicalError,
	}
}

func newSyntaxError(code errors.Code, message string, found string, expected ...string) *ParseError {
	return &ParseError{
		Code:     code,
		Message:  message,
		Found:    found,
		Expected: expected,
		Category: SyntaxError,
	}
}
