// Package errors provides the structured error types used across the FFI
// boundary.
//
// Errors are categorized by Category (who must act: the caller, the query
// executor, the payload author, or nobody because the fault is internal) and
// carry the numeric status Code that is written into the response envelope.
// The Error type includes context beyond the message: field path, offending
// value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.CodeTypeConversion).
//		Path("user", "created_at").
//		Value(raw).
//		Detail("cannot parse %q as RFC3339", raw).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidRequest("request buffer is empty")
//	err := errors.MissingField(nil, "table")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their codes are equal.
package errors
