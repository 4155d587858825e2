// Package envelope encodes and decodes the fixed-layout wrapper that carries
// a request or response across the boundary.
//
// # Wire layout
//
// All multi-byte fields are little-endian:
//
//	offset  size  field
//	0       4     magic "SFFI"
//	4       1     version (currently 1)
//	5       1     operation
//	6       1     payload kind
//	7       1     flags (bit 0: error payload present)
//	8       4     status code (int32)
//	12      2     hint token count
//	...           per token: u16 length + bytes
//	...     2     record hint count
//	...           per hint: u16 field length + field, u16 table length + table
//	...     4     payload length + bytes
//	...     4     error payload length + bytes (only when flag set)
//
// Decode validates every length against the input buffer before exposing any
// field and rejects trailing garbage. The Payload and ErrorPayload fields of
// a decoded Envelope are views into the input buffer: the Envelope must not
// outlive the buffer it was decoded from. Encode always produces a fresh
// buffer independent of caller-owned memory, and re-encoding a decoded
// envelope reproduces the original bytes.
package envelope
