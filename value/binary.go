package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BinaryKind identifies the variant held by a Binary value.
type BinaryKind uint8

const (
	BinNil BinaryKind = iota
	BinBool
	BinInt
	BinUint
	BinFloat
	BinText
	BinBinary
	BinArray
	BinMap
	BinTimestamp
)

func (k BinaryKind) String() string {
	switch k {
	case BinNil:
		return "nil"
	case BinBool:
		return "bool"
	case BinInt:
		return "integer"
	case BinUint:
		return "uinteger"
	case BinFloat:
		return "float"
	case BinText:
		return "text"
	case BinBinary:
		return "binary"
	case BinArray:
		return "array"
	case BinMap:
		return "map"
	case BinTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("binkind_%d", uint8(k))
	}
}

// Timestamp is the wire timestamp extension: seconds since the Unix epoch
// plus a nanosecond component in [0, 1e9).
type Timestamp struct {
	Seconds int64
	Nanos   int32
}

// Time converts the timestamp to a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// TimestampOf builds a wire timestamp from a time.Time.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Binary is the wire-side value: a closed tagged variant over the shapes the
// compact binary payload can carry. The zero value is Nil.
//
// BinUint exists only on the decode path, for wire integers above the signed
// 64-bit range; the forward converter never produces it.
type Binary struct {
	m    *Map
	arr  []Binary
	raw  []byte
	s    string
	i    int64
	u    uint64
	f    float64
	ts   Timestamp
	b    bool
	kind BinaryKind
}

// BinaryNil returns the wire nil value.
func BinaryNil() Binary { return Binary{kind: BinNil} }

// BinaryBool returns a wire boolean.
func BinaryBool(b bool) Binary { return Binary{kind: BinBool, b: b} }

// BinaryInt returns a wire signed integer.
func BinaryInt(i int64) Binary { return Binary{kind: BinInt, i: i} }

// BinaryUint returns a wire unsigned integer above the signed 64-bit range.
func BinaryUint(u uint64) Binary { return Binary{kind: BinUint, u: u} }

// BinaryFloat returns a wire float.
func BinaryFloat(f float64) Binary { return Binary{kind: BinFloat, f: f} }

// BinaryText returns a wire string.
func BinaryText(s string) Binary { return Binary{kind: BinText, s: s} }

// BinaryBytes returns a wire byte blob.
func BinaryBytes(b []byte) Binary { return Binary{kind: BinBinary, raw: b} }

// BinaryArray returns a wire array holding the given items.
func BinaryArray(items ...Binary) Binary { return Binary{kind: BinArray, arr: items} }

// BinaryMap wraps an ordered Map as a value. A nil map is treated as empty.
func BinaryMap(m *Map) Binary {
	if m == nil {
		m = NewMap()
	}
	return Binary{kind: BinMap, m: m}
}

// BinaryTimestamp returns a wire timestamp extension value.
func BinaryTimestamp(ts Timestamp) Binary { return Binary{kind: BinTimestamp, ts: ts} }

// Kind returns the variant tag.
func (v Binary) Kind() BinaryKind { return v.kind }

func (v Binary) Bool() bool           { return v.b }
func (v Binary) Int() int64           { return v.i }
func (v Binary) Uint() uint64         { return v.u }
func (v Binary) Float() float64       { return v.f }
func (v Binary) Text() string         { return v.s }
func (v Binary) Raw() []byte          { return v.raw }
func (v Binary) Arr() []Binary        { return v.arr }
func (v Binary) Map() *Map            { return v.m }
func (v Binary) Timestamp() Timestamp { return v.ts }

// String renders a human-readable display form.
func (v Binary) String() string {
	switch v.kind {
	case BinNil:
		return "nil"
	case BinBool:
		return strconv.FormatBool(v.b)
	case BinInt:
		return strconv.FormatInt(v.i, 10)
	case BinUint:
		return strconv.FormatUint(v.u, 10)
	case BinFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case BinText:
		return strconv.Quote(v.s)
	case BinBinary:
		return fmt.Sprintf("<binary len=%d>", len(v.raw))
	case BinArray:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case BinMap:
		var b strings.Builder
		b.WriteByte('{')
		first := true
		v.m.Range(func(key string, item Binary) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(strconv.Quote(key))
			b.WriteString(": ")
			b.WriteString(item.String())
			return true
		})
		b.WriteByte('}')
		return b.String()
	case BinTimestamp:
		return v.ts.Time().Format(time.RFC3339Nano)
	default:
		return "<invalid>"
	}
}

// Equal reports deep equality of two wire values, including key order for
// maps.
func (v Binary) Equal(other Binary) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case BinNil:
		return true
	case BinBool:
		return v.b == other.b
	case BinInt:
		return v.i == other.i
	case BinUint:
		return v.u == other.u
	case BinFloat:
		return v.f == other.f
	case BinText:
		return v.s == other.s
	case BinBinary:
		return string(v.raw) == string(other.raw)
	case BinArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case BinMap:
		return v.m.Equal(other.m)
	case BinTimestamp:
		return v.ts == other.ts
	default:
		return false
	}
}

// Map is the wire-side ordered string-keyed mapping. Same discipline as
// Object: unique keys, insertion order preserved, first occurrence wins.
type Map struct {
	fields map[string]Binary
	keys   []string
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{fields: make(map[string]Binary)}
}

// Set inserts key if absent and reports whether it was inserted.
func (m *Map) Set(key string, v Binary) bool {
	if _, exists := m.fields[key]; exists {
		return false
	}
	m.fields[key] = v
	m.keys = append(m.keys, key)
	return true
}

// Get returns the value for key.
func (m *Map) Get(key string) (Binary, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (m *Map) Keys() []string { return m.keys }

// Range visits entries in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, v Binary) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.fields[k]) {
			return
		}
	}
}

// Equal reports deep equality including key order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k {
			return false
		}
		if !m.fields[k].Equal(other.fields[k]) {
			return false
		}
	}
	return true
}
