// Package transcode converts between the source-side and wire-side value
// models.
//
// Forward flattens rich dynamic values into the reduced wire shapes. The
// mapping is total but lossy in three documented places: decimals are parsed
// to float64 (precision beyond 15–17 significant digits is lost), record
// references keep only their id, and the Other fallback keeps only its
// display string.
//
//	Dynamic Value ←→ [transcode] ←→ Wire Value
//
// Reverse rebuilds dynamic values from wire shapes. Because datetimes and
// record ids both travel as plain text, Reverse consults a hint.Set at map
// entries: a datetime hint re-parses the text as RFC3339, a record hint
// rebuilds the reference with the hinted table. Unhinted text stays text. A
// wire timestamp always becomes a datetime, hints or not.
//
// Both directions are pure and never suspend. The hint set is read, never
// mutated.
package transcode
