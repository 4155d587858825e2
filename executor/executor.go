package executor

import (
	"context"

	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

// Request carries the operation target and parameters extracted from a
// request envelope. Params is value.None when the caller sent none. For raw
// queries Table holds the statement text.
type Request struct {
	Table  string
	ID     string
	Params value.Dynamic
}

// QueryExecutor is the boundary's delegate for the actual query work.
// Implementations may run asynchronously internally; each method must honor
// ctx and return either the result rows or a structured error carrying an
// execution status code.
type QueryExecutor interface {
	Select(ctx context.Context, req Request) ([]value.Dynamic, error)
	Create(ctx context.Context, req Request) ([]value.Dynamic, error)
	Update(ctx context.Context, req Request) ([]value.Dynamic, error)
	Delete(ctx context.Context, req Request) ([]value.Dynamic, error)
	RawQuery(ctx context.Context, req Request) ([]value.Dynamic, error)
}
