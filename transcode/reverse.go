package transcode

import (
	"math"
	"strconv"
	"time"

	"github.com/yuzamesan3/surrealdb-ffi-codec/errors"
	"github.com/yuzamesan3/surrealdb-ffi-codec/hint"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

// Reverse converts a wire value back into a dynamic value, consulting hints
// at map entries. hints may be nil.
func Reverse(b value.Binary, hints *hint.Set) (value.Dynamic, error) {
	return reverse(b, hints, nil)
}

func reverse(b value.Binary, hints *hint.Set, path []string) (value.Dynamic, error) {
	switch b.Kind() {
	case value.BinNil:
		return value.Null(), nil

	case value.BinBool:
		return value.Bool(b.Bool()), nil

	case value.BinInt:
		return value.Int(b.Int()), nil

	case value.BinUint:
		// Deliberate asymmetry: a wire integer above the signed 64-bit
		// range becomes its exact decimal string and never round-trips
		// back to an integer.
		if b.Uint() <= math.MaxInt64 {
			return value.Int(int64(b.Uint())), nil
		}
		return value.Text(strconv.FormatUint(b.Uint(), 10)), nil

	case value.BinFloat:
		return value.Float(b.Float()), nil

	case value.BinText:
		return value.Text(b.Text()), nil

	case value.BinBinary:
		return value.Bytes(b.Raw()), nil

	case value.BinTimestamp:
		// Timestamps carry their kind on the wire; no hint needed.
		return value.Datetime(b.Timestamp().Time()), nil

	case value.BinArray:
		items := b.Arr()
		out := make([]value.Dynamic, len(items))
		for i, item := range items {
			conv, err := reverse(item, hints, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return value.Dynamic{}, err
			}
			out[i] = conv
		}
		return value.Array(out...), nil

	case value.BinMap:
		obj := value.NewObject()
		var walkErr error
		b.Map().Range(func(key string, item value.Binary) bool {
			conv, err := reverseField(key, item, hints, append(path, key))
			if err != nil {
				walkErr = err
				return false
			}
			obj.Set(key, conv)
			return true
		})
		if walkErr != nil {
			return value.Dynamic{}, walkErr
		}
		return value.ObjectValue(obj), nil

	default:
		return value.Dynamic{}, errors.New(errors.CodeDeserialization).
			Path(path...).
			Detail("unknown wire kind %d", uint8(b.Kind())).
			Build()
	}
}

// reverseField applies hints to one map entry. Only text values are
// hint-sensitive; everything else takes the plain path.
func reverseField(field string, b value.Binary, hints *hint.Set, path []string) (value.Dynamic, error) {
	if b.Kind() != value.BinText {
		return reverse(b, hints, path)
	}

	h, ok := hints.Lookup(field)
	if !ok {
		return value.Text(b.Text()), nil
	}

	switch h.Kind {
	case hint.KindDatetime:
		t, err := time.Parse(time.RFC3339, b.Text())
		if err != nil {
			return value.Dynamic{}, errors.New(errors.CodeTypeConversion).
				Path(path...).
				Value(b.Text()).
				Cause(err).
				Detail("cannot parse %q as RFC3339 datetime", b.Text()).
				Build()
		}
		return value.Datetime(t), nil

	case hint.KindRecord:
		return value.Record(h.Table, b.Text()), nil

	default:
		return value.Text(b.Text()), nil
	}
}
