// Package value defines the two tagged-variant value models exchanged across
// the FFI boundary.
//
// Dynamic is the source-side model: the rich, schema-less values produced and
// consumed by the query executor. It preserves datetimes, durations, UUIDs,
// record references, and arbitrary-precision decimals (as strings).
//
// Binary is the wire-side model: the reduced set of shapes that survive the
// compact binary payload encoding (nil, bool, integers, float, text, binary,
// array, map, timestamp extension).
//
// Both variants are closed. Dynamic carries one explicit escape hatch, the
// Other kind, which holds only a display string and is inherently lossy.
//
// # Ordered maps
//
// Object (dynamic side) and Map (wire side) preserve insertion order and
// enforce unique keys. On a duplicate key the first occurrence wins; Set
// reports whether the key was inserted. Value trees are acyclic by
// construction, so consumers never need cycle detection.
package value
