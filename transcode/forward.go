package transcode

import (
	"strconv"
	"strings"
	"time"

	"github.com/yuzamesan3/surrealdb-ffi-codec/errors"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

// Forward converts a dynamic value into its wire representation. The walk is
// recursive over arrays and objects and preserves map insertion order.
func Forward(v value.Dynamic) (value.Binary, error) {
	return forward(v, nil)
}

func forward(v value.Dynamic, path []string) (value.Binary, error) {
	switch v.Kind() {
	case value.KindNone, value.KindNull:
		return value.BinaryNil(), nil

	case value.KindBool:
		return value.BinaryBool(v.Bool()), nil

	case value.KindInt:
		return value.BinaryInt(v.Int()), nil

	case value.KindFloat:
		return value.BinaryFloat(v.Float()), nil

	case value.KindDecimal:
		// Lossy past float64 precision. The exact string form does not
		// survive the wire model.
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Decimal()), 64)
		if err != nil {
			return value.Binary{}, errors.New(errors.CodeTypeConversion).
				Path(path...).
				Value(v.Decimal()).
				Detail("cannot parse decimal %q", v.Decimal()).
				Build()
		}
		return value.BinaryFloat(f), nil

	case value.KindText:
		return value.BinaryText(v.Text()), nil

	case value.KindDatetime:
		return value.BinaryText(v.Datetime().Format(time.RFC3339Nano)), nil

	case value.KindDuration:
		return value.BinaryText(v.Duration().String()), nil

	case value.KindUUID:
		return value.BinaryText(v.UUID().String()), nil

	case value.KindRecord:
		// Only the id crosses the wire. The table name is recoverable on
		// the reverse path solely through a record hint.
		return value.BinaryText(plainRecordID(v.Record().ID)), nil

	case value.KindArray:
		items := v.Arr()
		out := make([]value.Binary, len(items))
		for i, item := range items {
			conv, err := forward(item, append(path, "["+strconv.Itoa(i)+"]"))
			if err != nil {
				return value.Binary{}, err
			}
			out[i] = conv
		}
		return value.BinaryArray(out...), nil

	case value.KindObject:
		m := value.NewMap()
		var walkErr error
		v.Object().Range(func(key string, item value.Dynamic) bool {
			conv, err := forward(item, append(path, key))
			if err != nil {
				walkErr = err
				return false
			}
			m.Set(key, conv)
			return true
		})
		if walkErr != nil {
			return value.Binary{}, walkErr
		}
		return value.BinaryMap(m), nil

	case value.KindBytes:
		return value.BinaryBytes(v.Raw()), nil

	case value.KindOther:
		// Display fallback, inherently lossy.
		return value.BinaryText(v.String()), nil

	default:
		return value.Binary{}, errors.New(errors.CodeSerialization).
			Path(path...).
			Detail("unknown value kind %d", uint8(v.Kind())).
			Build()
	}
}

// plainRecordID strips record-literal delimiters from an id: surrounding
// angle quotes for complex ids and backtick quoting for escaped idents.
func plainRecordID(id string) string {
	id = strings.TrimPrefix(id, "⟨")
	id = strings.TrimSuffix(id, "⟩")
	if len(id) >= 2 && id[0] == '`' && id[len(id)-1] == '`' {
		id = id[1 : len(id)-1]
	}
	return id
}
