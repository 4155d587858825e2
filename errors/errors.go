package errors

import (
	"fmt"
	"strings"
)

// Code is the numeric status written into a response envelope. Zero is
// success and never appears on an Error; every other value identifies one
// failure condition.
type Code int32

const (
	CodeSuccess Code = 0
	CodeFatal   Code = -1

	// Request errors: the caller sent something malformed.
	CodeInvalidRequest       Code = 100
	CodeMissingField         Code = 101
	CodeInvalidValue         Code = 102
	CodeUnsupportedOperation Code = 103

	// Execution errors: delegated from the query executor.
	CodeConnection  Code = 200
	CodeQuery       Code = 201
	CodeNotFound    Code = 202
	CodeDuplicate   Code = 203
	CodeTransaction Code = 204

	// Conversion errors: the payload or hints need fixing.
	CodeSerialization   Code = 300
	CodeDeserialization Code = 301
	CodeTypeConversion  Code = 302

	CodeNotImplemented Code = 999
)

// Category groups codes by who must act on the failure.
type Category string

const (
	CategoryRequest    Category = "request"    // fix and resend
	CategoryExecution  Category = "execution"  // delegated from the executor
	CategoryConversion Category = "conversion" // fix payload or hints
	CategoryFatal      Category = "fatal"      // unexpected internal fault
)

// Category returns the taxonomy bucket for the code.
func (c Code) Category() Category {
	switch {
	case c >= 100 && c <= 199:
		return CategoryRequest
	case c >= 200 && c <= 299:
		return CategoryExecution
	case c >= 300 && c <= 399:
		return CategoryConversion
	case c == CodeNotImplemented:
		return CategoryRequest
	default:
		return CategoryFatal
	}
}

// Retryable reports whether resending the same request can succeed without
// any change on the caller's side. Only connection and transaction failures
// qualify; not-found and duplicate are expected outcomes, not transient
// faults.
func (c Code) Retryable() bool {
	return c == CodeConnection || c == CodeTransaction
}

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeFatal:
		return "fatal"
	case CodeInvalidRequest:
		return "invalid_request"
	case CodeMissingField:
		return "missing_field"
	case CodeInvalidValue:
		return "invalid_value"
	case CodeUnsupportedOperation:
		return "unsupported_operation"
	case CodeConnection:
		return "connection"
	case CodeQuery:
		return "query"
	case CodeNotFound:
		return "not_found"
	case CodeDuplicate:
		return "duplicate"
	case CodeTransaction:
		return "transaction"
	case CodeSerialization:
		return "serialization"
	case CodeDeserialization:
		return "deserialization"
	case CodeTypeConversion:
		return "type_conversion"
	case CodeNotImplemented:
		return "not_implemented"
	default:
		return fmt.Sprintf("code_%d", int32(c))
	}
}

// Error is the structured error type used throughout the codec.
type Error struct {
	Value  any
	Cause  error
	Code   Code
	Detail string
	Path   []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Code.Category()))
	b.WriteString("] ")
	b.WriteString(e.Code.String())

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two *Error values match
// when their codes are equal.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// CodeOf extracts the status code from err, walking the cause chain for the
// first *Error. Unknown error types map to CodeFatal.
func CodeOf(err error) Code {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return CodeFatal
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder for the given code.
func New(code Code) *Builder {
	return &Builder{
		err: Error{Code: code},
	}
}

// Path sets the field path.
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value.
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidRequest creates a structurally-invalid-request error.
func InvalidRequest(detail string) *Error {
	return &Error{Code: CodeInvalidRequest, Detail: detail}
}

// MissingField creates a missing required field error.
func MissingField(path []string, fieldName string) *Error {
	return &Error{
		Code:   CodeMissingField,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// InvalidValue creates an invalid value error.
func InvalidValue(detail string, value any) *Error {
	return &Error{Code: CodeInvalidValue, Detail: detail, Value: value}
}

// Unsupported creates an unsupported operation error.
func Unsupported(what string) *Error {
	return &Error{Code: CodeUnsupportedOperation, Detail: what}
}

// NotFound creates a not-found execution error.
func NotFound(what, name string) *Error {
	return &Error{
		Code:   CodeNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Duplicate creates a duplicate-record execution error.
func Duplicate(what, name string) *Error {
	return &Error{
		Code:   CodeDuplicate,
		Detail: fmt.Sprintf("%s %q already exists", what, name),
	}
}

// Serialization creates a forward serialization error.
func Serialization(detail string, cause error) *Error {
	return &Error{Code: CodeSerialization, Detail: detail, Cause: cause}
}

// Deserialization creates a wire decoding error.
func Deserialization(detail string, cause error) *Error {
	return &Error{Code: CodeDeserialization, Detail: detail, Cause: cause}
}

// TypeConversion creates a type conversion error for a field path.
func TypeConversion(path []string, detail string, value any) *Error {
	return &Error{
		Code:   CodeTypeConversion,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// Fatal wraps an unexpected internal fault. The detail is best-effort and
// intentionally minimal; the cause carries the full context for logs.
func Fatal(detail string, cause error) *Error {
	return &Error{Code: CodeFatal, Detail: detail, Cause: cause}
}

// Wrap wraps an existing error with a status code and detail.
func Wrap(code Code, cause error, detail string) *Error {
	return &Error{Code: code, Detail: detail, Cause: cause}
}
