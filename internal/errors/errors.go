// Package errors provides the structured error type shared by the DDL parser,
// the partition validator and the HTTP front end. Every error carries a
// category, a code and a human readable message; parse errors additionally
// carry the offending SQL together with what was expected and what was found.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by the layer that produced them.
type ErrorCategory string

const (
	ErrCategorySyntax     ErrorCategory = "SYNTAX"
	ErrCategoryValidation ErrorCategory = "VALIDATION"
	ErrCategoryAuth       ErrorCategory = "AUTH"
	ErrCategoryInternal   ErrorCategory = "INTERNAL"
)

// Error codes for each category.
const (
	// Syntax codes
	CodeSyntax          = "SYNTAX"
	CodeUnexpectedToken = "UNEXPECTED_TOKEN"
	CodeUnsupported     = "UNSUPPORTED"

	// Validation codes
	CodeInvalidTimeIndex    = "INVALID_TIME_INDEX"
	CodeInvalidSQL          = "INVALID_SQL"
	CodeColumnTypeMismatch  = "COLUMN_TYPE_MISMATCH"
	CodeUnsupportedDataType = "UNSUPPORTED_DATA_TYPE"

	// Auth codes
	CodeUnsupportedAuthScheme = "UNSUPPORTED_AUTH_SCHEME"
	CodeInvalidBase64         = "INVALID_BASE64"
	CodeInvalidUTF8           = "INVALID_UTF8"
	CodeMissingAuthHeader     = "MISSING_AUTH_HEADER"
	CodeInvalidAuthHeader     = "INVALID_AUTH_HEADER"
	CodeAuthFailed            = "AUTH_FAILED"

	// Internal codes
	CodeUnexpected = "UNEXPECTED"
)

// Error is the structured error type used throughout the system.
type Error struct {
	Category ErrorCategory
	Code     string
	Message  string

	// SQL is the statement text being parsed, when the error comes from the parser.
	SQL string
	// Expected describes the construct the parser was looking for.
	Expected string
	// Actual renders the token that was found instead.
	Actual string

	Cause error
}

// Error returns a formatted error string.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new Error.
func New(category ErrorCategory, code, message string) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *Error {
	return &Error{
		Category: category,
		Code:     code,
		Message:  message,
		Cause:    cause,
	}
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not an *Error.
func GetCategory(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not an *Error.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ParserError is the low level mismatch reported by the token cursor. It is
// never returned on its own; the parser wraps it with the statement context.
type ParserError struct {
	Expected string
	Found    string
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("sql parser error: Expected %s, found: %s", e.Expected, e.Found)
}

// Syntax reports a token level mismatch bubbled up from the grammar.
func Syntax(sql string, cause error) *Error {
	e := Wrap(ErrCategorySyntax, CodeSyntax, fmt.Sprintf("Syntax error, sql: %s", sql), cause)
	e.SQL = sql
	var pe *ParserError
	if errors.As(cause, &pe) {
		e.Expected = pe.Expected
		e.Actual = pe.Found
	}
	return e
}

// Unexpected reports that a specific construct was not found where the
// grammar requires it. cause may be nil.
func Unexpected(sql, expected, actual string, cause error) *Error {
	msg := fmt.Sprintf("Unexpected token while parsing SQL statement: %s, expected: '%s', found: %s", sql, expected, actual)
	e := Wrap(ErrCategorySyntax, CodeUnexpectedToken, msg, cause)
	e.SQL = sql
	e.Expected = expected
	e.Actual = actual
	return e
}

// Unsupported reports a statement or CREATE target this front end does not handle.
func Unsupported(sql, keyword string) *Error {
	e := New(ErrCategorySyntax, CodeUnsupported, fmt.Sprintf("SQL statement is not supported: %s, keyword: %s", sql, keyword))
	e.SQL = sql
	e.Actual = keyword
	return e
}

// InvalidTimeIndex reports a TIME INDEX clause that does not name exactly one column.
func InvalidTimeIndex(sql string) *Error {
	e := New(ErrCategoryValidation, CodeInvalidTimeIndex, fmt.Sprintf("Invalid time index: %s", sql))
	e.SQL = sql
	return e
}

// InvalidSQL reports a semantically invalid statement, such as a malformed partition scheme.
func InvalidSQL(msg string) *Error {
	return New(ErrCategoryValidation, CodeInvalidSQL, fmt.Sprintf("Invalid SQL, error: %s", msg))
}

// NewValidationError builds a validation error with an arbitrary code.
func NewValidationError(code, message string) *Error {
	return New(ErrCategoryValidation, code, message)
}

// NewAuthError builds an authorization error, optionally wrapping the decoding failure.
func NewAuthError(code, message string, cause error) *Error {
	return Wrap(ErrCategoryAuth, code, message, cause)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCategoryInternal, CodeUnexpected, message, cause)
}
