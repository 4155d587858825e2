package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Code:   CodeTypeConversion,
				Path:   []string{"user", "created_at"},
				Detail: "cannot parse as RFC3339",
			},
			contains: []string{"[conversion]", "type_conversion", "user.created_at", "cannot parse as RFC3339"},
		},
		{
			name: "minimal error",
			err: &Error{
				Code: CodeInvalidRequest,
			},
			contains: []string{"[request]", "invalid_request"},
		},
		{
			name: "error with cause",
			err: &Error{
				Code:   CodeFatal,
				Detail: "pipeline fault",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[fatal]", "fatal", "pipeline fault", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestCode_Category(t *testing.T) {
	tests := []struct {
		code Code
		want Category
	}{
		{CodeInvalidRequest, CategoryRequest},
		{CodeMissingField, CategoryRequest},
		{CodeInvalidValue, CategoryRequest},
		{CodeUnsupportedOperation, CategoryRequest},
		{CodeConnection, CategoryExecution},
		{CodeNotFound, CategoryExecution},
		{CodeTransaction, CategoryExecution},
		{CodeSerialization, CategoryConversion},
		{CodeDeserialization, CategoryConversion},
		{CodeTypeConversion, CategoryConversion},
		{CodeNotImplemented, CategoryRequest},
		{CodeFatal, CategoryFatal},
	}

	for _, tt := range tests {
		if got := tt.code.Category(); got != tt.want {
			t.Errorf("Category(%v): got %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestCode_Retryable(t *testing.T) {
	retryable := []Code{CodeConnection, CodeTransaction}
	for _, c := range retryable {
		if !c.Retryable() {
			t.Errorf("%v should be retryable", c)
		}
	}

	notRetryable := []Code{
		CodeInvalidRequest, CodeNotFound, CodeDuplicate,
		CodeSerialization, CodeFatal, CodeQuery,
	}
	for _, c := range notRetryable {
		if c.Retryable() {
			t.Errorf("%v should not be retryable", c)
		}
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{Code: CodeNotFound, Detail: "record user:john not found"}

	if !errors.Is(err, &Error{Code: CodeNotFound}) {
		t.Error("expected match on equal codes")
	}
	if errors.Is(err, &Error{Code: CodeDuplicate}) {
		t.Error("unexpected match on different codes")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(CodeQuery, cause, "statement failed")

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"direct", NotFound("record", "user:john"), CodeNotFound},
		{"wrapped", Wrap(CodeQuery, errors.New("syntax"), "statement"), CodeQuery},
		{"plain error", errors.New("boom"), CodeFatal},
		{"nil", nil, CodeFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("bad input")
	err := New(CodeTypeConversion).
		Path("params", "created_at").
		Value("not-a-date").
		Cause(cause).
		Detail("cannot parse %q as RFC3339", "not-a-date").
		Build()

	if err.Code != CodeTypeConversion {
		t.Errorf("Code: got %v", err.Code)
	}
	if len(err.Path) != 2 || err.Path[1] != "created_at" {
		t.Errorf("Path: got %v", err.Path)
	}
	if err.Value != "not-a-date" {
		t.Errorf("Value: got %v", err.Value)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not wrapped")
	}
	if !strings.Contains(err.Detail, `"not-a-date"`) {
		t.Errorf("Detail: got %q", err.Detail)
	}
}
