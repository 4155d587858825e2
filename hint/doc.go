// Package hint parses per-field type hints and resolves them into an
// immutable field→kind index.
//
// A hint recovers information that the wire format flattens to plain text:
// datetimes and record references both travel as strings, and without a hint
// the reverse converter has no way to tell them apart from ordinary text.
//
// # Grammar
//
// Raw tokens are split on ':':
//
//	"created_at"              datetime hint for field created_at
//	"datetime:created_at"     same, explicit form
//	"record:user:owner_id"    record hint (table user) for field owner_id
//
// Any other shape is rejected with an invalid_value error. Structured
// {field, table} record hints merge in alongside the tokens.
//
// # Conflicts
//
// When a field receives both a datetime and a record hint, record wins and a
// warning is logged once per field per Set. Hints address direct field names
// only; nested paths are not supported.
package hint
