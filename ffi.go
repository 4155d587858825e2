package fficodec

import (
	"github.com/yuzamesan3/surrealdb-ffi-codec/boundary"
)

// ExecuteRequest runs a serialized request envelope through the process-wide
// boundary and returns the response buffer. The caller owns the buffer and
// must release it with FreeResponseBuffer exactly once.
func ExecuteRequest(req []byte) *boundary.ResponseBuffer {
	return boundary.Default().ExecuteRequest(req)
}

// FreeResponseBuffer releases a buffer returned by ExecuteRequest. Freeing
// nil, freeing twice, or freeing a buffer from another boundary is an error.
func FreeResponseBuffer(buf *boundary.ResponseBuffer) error {
	return boundary.Default().FreeResponseBuffer(buf)
}
