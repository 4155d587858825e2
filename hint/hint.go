package hint

import (
	"strings"

	"go.uber.org/zap"

	"github.com/yuzamesan3/surrealdb-ffi-codec/errors"
)

// Kind is the recoverable value kind a hint selects.
type Kind uint8

const (
	// KindDatetime marks a text field as an RFC3339 datetime.
	KindDatetime Kind = iota + 1
	// KindRecord marks a text field as a record id in a named table.
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindDatetime:
		return "datetime"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Hint is a resolved per-field instruction. Table is set only for
// KindRecord.
type Hint struct {
	Field string
	Table string
	Kind  Kind
}

// RecordField is a structured record-reference hint supplied alongside the
// raw tokens.
type RecordField struct {
	Field string
	Table string
}

// Set is the immutable field→hint index built once per request. It is
// consulted read-only by the reverse converter and is safe for concurrent
// reads.
type Set struct {
	hints    map[string]Hint
	warnings []string
}

// Parse resolves raw hint tokens and structured record hints into a Set.
//
// Token grammar, split on ':':
//
//	field                   → datetime hint for field
//	datetime:field          → datetime hint for field
//	record:table:field      → record hint for field
//
// Any other shape fails with an invalid_value error. When a field would
// receive both kinds, record wins and one warning per field is recorded.
func Parse(tokens []string, fields []RecordField) (*Set, error) {
	s := &Set{hints: make(map[string]Hint, len(tokens)+len(fields))}
	warned := make(map[string]struct{})

	for _, tok := range tokens {
		h, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		s.merge(h, warned)
	}

	for _, rf := range fields {
		s.merge(Hint{Field: rf.Field, Table: rf.Table, Kind: KindRecord}, warned)
	}

	return s, nil
}

func parseToken(tok string) (Hint, error) {
	segs := strings.Split(tok, ":")
	switch len(segs) {
	case 1:
		if segs[0] == "" {
			return Hint{}, errors.InvalidValue("empty hint token", tok)
		}
		return Hint{Field: segs[0], Kind: KindDatetime}, nil
	case 2:
		if segs[0] != "datetime" || segs[1] == "" {
			return Hint{}, errors.InvalidValue("malformed hint token", tok)
		}
		return Hint{Field: segs[1], Kind: KindDatetime}, nil
	case 3:
		if segs[0] != "record" || segs[1] == "" || segs[2] == "" {
			return Hint{}, errors.InvalidValue("malformed hint token", tok)
		}
		return Hint{Field: segs[2], Table: segs[1], Kind: KindRecord}, nil
	default:
		return Hint{}, errors.InvalidValue("malformed hint token", tok)
	}
}

// merge applies the conflict rule: record beats datetime, and the first hint
// of the winning kind for a field is kept.
func (s *Set) merge(h Hint, warned map[string]struct{}) {
	existing, ok := s.hints[h.Field]
	if !ok {
		s.hints[h.Field] = h
		return
	}

	if existing.Kind == h.Kind {
		// Same kind repeated: first occurrence wins, no warning.
		return
	}

	if existing.Kind == KindDatetime && h.Kind == KindRecord {
		s.hints[h.Field] = h
	}
	s.warn(h.Field, warned)
}

func (s *Set) warn(field string, warned map[string]struct{}) {
	if _, ok := warned[field]; ok {
		return
	}
	warned[field] = struct{}{}
	s.warnings = append(s.warnings, field)
	log().Warn("conflicting type hints, record wins",
		zap.String("field", field))
}

// Lookup returns the hint for a field name. A nil Set has no hints.
func (s *Set) Lookup(field string) (Hint, bool) {
	if s == nil {
		return Hint{}, false
	}
	h, ok := s.hints[field]
	return h, ok
}

// Len returns the number of hinted fields.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.hints)
}

// Warnings returns the fields that had a datetime/record conflict, in the
// order the conflicts were first seen. At most one entry per field.
func (s *Set) Warnings() []string {
	if s == nil {
		return nil
	}
	return s.warnings
}
