package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the variant held by a Dynamic value.
type Kind uint8

const (
	KindNone Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindText
	KindDatetime
	KindDuration
	KindUUID
	KindRecord
	KindArray
	KindObject
	KindBytes
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindText:
		return "text"
	case KindDatetime:
		return "datetime"
	case KindDuration:
		return "duration"
	case KindUUID:
		return "uuid"
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindBytes:
		return "bytes"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind_%d", uint8(k))
	}
}

// RecordID identifies an entity by table name and identifier.
type RecordID struct {
	Table string
	ID    string
}

func (r RecordID) String() string {
	return r.Table + ":" + r.ID
}

// Dynamic is the source-side value: a closed tagged variant over the shapes
// the query executor produces. The zero value is None.
type Dynamic struct {
	obj  *Object
	arr  []Dynamic
	raw  []byte
	s    string
	rec  RecordID
	t    time.Time
	u    uuid.UUID
	i    int64
	f    float64
	d    time.Duration
	b    bool
	kind Kind
}

// None returns the absent value.
func None() Dynamic { return Dynamic{kind: KindNone} }

// Null returns the explicit null value.
func Null() Dynamic { return Dynamic{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Dynamic { return Dynamic{kind: KindBool, b: b} }

// Int returns a 64-bit integer value.
func Int(i int64) Dynamic { return Dynamic{kind: KindInt, i: i} }

// Float returns a 64-bit float value.
func Float(f float64) Dynamic { return Dynamic{kind: KindFloat, f: f} }

// Decimal returns an arbitrary-precision decimal held as its exact string
// form.
func Decimal(s string) Dynamic { return Dynamic{kind: KindDecimal, s: s} }

// Text returns a string value.
func Text(s string) Dynamic { return Dynamic{kind: KindText, s: s} }

// Datetime returns a point-in-time value.
func Datetime(t time.Time) Dynamic { return Dynamic{kind: KindDatetime, t: t} }

// Duration returns an elapsed-time value.
func Duration(d time.Duration) Dynamic { return Dynamic{kind: KindDuration, d: d} }

// UUID returns a UUID value.
func UUID(u uuid.UUID) Dynamic { return Dynamic{kind: KindUUID, u: u} }

// Record returns a record reference value.
func Record(table, id string) Dynamic {
	return Dynamic{kind: KindRecord, rec: RecordID{Table: table, ID: id}}
}

// Array returns an array value holding the given items.
func Array(items ...Dynamic) Dynamic { return Dynamic{kind: KindArray, arr: items} }

// ObjectValue wraps an ordered Object as a value. A nil object is treated as
// empty.
func ObjectValue(o *Object) Dynamic {
	if o == nil {
		o = NewObject()
	}
	return Dynamic{kind: KindObject, obj: o}
}

// Bytes returns a raw byte value.
func Bytes(b []byte) Dynamic { return Dynamic{kind: KindBytes, raw: b} }

// Other returns the lossy fallback value carrying only a display string.
func Other(display string) Dynamic { return Dynamic{kind: KindOther, s: display} }

// Kind returns the variant tag.
func (v Dynamic) Kind() Kind { return v.kind }

// Accessors are meaningful only for the matching kind; a mismatched accessor
// returns the zero value of its type.

func (v Dynamic) Bool() bool              { return v.b }
func (v Dynamic) Int() int64              { return v.i }
func (v Dynamic) Float() float64          { return v.f }
func (v Dynamic) Decimal() string         { return v.s }
func (v Dynamic) Text() string            { return v.s }
func (v Dynamic) Datetime() time.Time     { return v.t }
func (v Dynamic) Duration() time.Duration { return v.d }
func (v Dynamic) UUID() uuid.UUID         { return v.u }
func (v Dynamic) Record() RecordID        { return v.rec }
func (v Dynamic) Arr() []Dynamic          { return v.arr }
func (v Dynamic) Object() *Object         { return v.obj }
func (v Dynamic) Raw() []byte             { return v.raw }

// String renders a human-readable display form. For KindOther this is the
// stored display string verbatim.
func (v Dynamic) String() string {
	switch v.kind {
	case KindNone:
		return "NONE"
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal, KindText, KindOther:
		return v.s
	case KindDatetime:
		return v.t.Format(time.RFC3339Nano)
	case KindDuration:
		return v.d.String()
	case KindUUID:
		return v.u.String()
	case KindRecord:
		return v.rec.String()
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		var b strings.Builder
		b.WriteByte('{')
		first := true
		v.obj.Range(func(key string, item Dynamic) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(item.String())
			return true
		})
		b.WriteByte('}')
		return b.String()
	case KindBytes:
		return fmt.Sprintf("<bytes len=%d>", len(v.raw))
	default:
		return "<invalid>"
	}
}

// Equal reports deep equality of two dynamic values, including key order for
// objects.
func (v Dynamic) Equal(other Dynamic) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNone, KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindDecimal, KindText, KindOther:
		return v.s == other.s
	case KindDatetime:
		return v.t.Equal(other.t)
	case KindDuration:
		return v.d == other.d
	case KindUUID:
		return v.u == other.u
	case KindRecord:
		return v.rec == other.rec
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.obj.Equal(other.obj)
	case KindBytes:
		return string(v.raw) == string(other.raw)
	default:
		return false
	}
}

// Object is an ordered string-keyed mapping with unique keys. The first
// occurrence of a key wins; later Set calls with the same key are ignored.
type Object struct {
	fields map[string]Dynamic
	keys   []string
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Dynamic)}
}

// Set inserts key if absent and reports whether it was inserted.
func (o *Object) Set(key string, v Dynamic) bool {
	if _, exists := o.fields[key]; exists {
		return false
	}
	o.fields[key] = v
	o.keys = append(o.keys, key)
	return true
}

// Get returns the value for key.
func (o *Object) Get(key string) (Dynamic, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (o *Object) Keys() []string { return o.keys }

// Range visits entries in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, v Dynamic) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.fields[k]) {
			return
		}
	}
}

// Equal reports deep equality including key order.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i, k := range o.keys {
		if other.keys[i] != k {
			return false
		}
		if !o.fields[k].Equal(other.fields[k]) {
			return false
		}
	}
	return true
}
