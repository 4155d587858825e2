// Package executor defines the query executor collaborator consumed by the
// boundary, and ships an in-memory implementation used by tests and the
// inspector's demo mode.
//
// The boundary delegates the actual query work through the QueryExecutor
// interface; everything behind it (storage, transactions, query language) is
// outside the codec. Executors report failures as structured errors with
// execution-range status codes so the boundary can encode them directly into
// an error envelope.
package executor
