package payload

import (
	"bytes"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/yuzamesan3/surrealdb-ffi-codec/errors"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

// Safety limits for decoding untrusted payloads.
const (
	MaxStringSize = 16 << 20 // 16 MB per string or byte blob
	MaxElements   = 1 << 20  // 1M entries per array or map
	MaxDepth      = 128      // nesting levels
)

// Marshal encodes a wire value tree to MessagePack bytes.
func Marshal(v value.Binary) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encode(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(enc *msgpack.Encoder, v value.Binary) error {
	switch v.Kind() {
	case value.BinNil:
		return enc.EncodeNil()
	case value.BinBool:
		return enc.EncodeBool(v.Bool())
	case value.BinInt:
		return enc.EncodeInt(v.Int())
	case value.BinUint:
		return enc.EncodeUint(v.Uint())
	case value.BinFloat:
		return enc.EncodeFloat64(v.Float())
	case value.BinText:
		return enc.EncodeString(v.Text())
	case value.BinBinary:
		return enc.EncodeBytes(v.Raw())
	case value.BinTimestamp:
		return enc.EncodeTime(v.Timestamp().Time())
	case value.BinArray:
		items := v.Arr()
		if err := enc.EncodeArrayLen(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := encode(enc, item); err != nil {
				return err
			}
		}
		return nil
	case value.BinMap:
		m := v.Map()
		if err := enc.EncodeMapLen(m.Len()); err != nil {
			return err
		}
		var walkErr error
		m.Range(func(key string, item value.Binary) bool {
			if walkErr = enc.EncodeString(key); walkErr != nil {
				return false
			}
			walkErr = encode(enc, item)
			return walkErr == nil
		})
		return walkErr
	default:
		return errors.Serialization("unknown wire kind", nil)
	}
}

// Unmarshal decodes MessagePack bytes into a wire value tree.
func Unmarshal(data []byte) (value.Binary, error) {
	if len(data) == 0 {
		return value.Binary{}, errors.Deserialization("empty payload", nil)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	return decode(dec, 0)
}

func decode(dec *msgpack.Decoder, depth int) (value.Binary, error) {
	if depth > MaxDepth {
		return value.Binary{}, errors.Deserialization("payload nesting too deep", nil)
	}

	c, err := dec.PeekCode()
	if err != nil {
		return value.Binary{}, errors.Deserialization("truncated payload", err)
	}

	switch {
	case c == msgpcode.Nil:
		if err := dec.DecodeNil(); err != nil {
			return value.Binary{}, errors.Deserialization("nil", err)
		}
		return value.BinaryNil(), nil

	case c == msgpcode.True, c == msgpcode.False:
		b, err := dec.DecodeBool()
		if err != nil {
			return value.Binary{}, errors.Deserialization("bool", err)
		}
		return value.BinaryBool(b), nil

	case msgpcode.IsFixedNum(c),
		c == msgpcode.Int8, c == msgpcode.Int16, c == msgpcode.Int32, c == msgpcode.Int64:
		i, err := dec.DecodeInt64()
		if err != nil {
			return value.Binary{}, errors.Deserialization("integer", err)
		}
		return value.BinaryInt(i), nil

	case c == msgpcode.Uint8, c == msgpcode.Uint16, c == msgpcode.Uint32, c == msgpcode.Uint64:
		u, err := dec.DecodeUint64()
		if err != nil {
			return value.Binary{}, errors.Deserialization("integer", err)
		}
		if u <= math.MaxInt64 {
			return value.BinaryInt(int64(u)), nil
		}
		return value.BinaryUint(u), nil

	case c == msgpcode.Float, c == msgpcode.Double:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return value.Binary{}, errors.Deserialization("float", err)
		}
		return value.BinaryFloat(f), nil

	case msgpcode.IsString(c):
		s, err := dec.DecodeString()
		if err != nil {
			return value.Binary{}, errors.Deserialization("string", err)
		}
		if len(s) > MaxStringSize {
			return value.Binary{}, errors.Deserialization("string exceeds size limit", nil)
		}
		return value.BinaryText(s), nil

	case msgpcode.IsBin(c):
		b, err := dec.DecodeBytes()
		if err != nil {
			return value.Binary{}, errors.Deserialization("binary", err)
		}
		if len(b) > MaxStringSize {
			return value.Binary{}, errors.Deserialization("binary exceeds size limit", nil)
		}
		return value.BinaryBytes(b), nil

	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return value.Binary{}, errors.Deserialization("array header", err)
		}
		if n > MaxElements {
			return value.Binary{}, errors.Deserialization("array exceeds element limit", nil)
		}
		items := make([]value.Binary, n)
		for i := 0; i < n; i++ {
			item, err := decode(dec, depth+1)
			if err != nil {
				return value.Binary{}, err
			}
			items[i] = item
		}
		return value.BinaryArray(items...), nil

	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return value.Binary{}, errors.Deserialization("map header", err)
		}
		if n > MaxElements {
			return value.Binary{}, errors.Deserialization("map exceeds element limit", nil)
		}
		m := value.NewMap()
		for i := 0; i < n; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return value.Binary{}, errors.Deserialization("map key must be text", err)
			}
			item, err := decode(dec, depth+1)
			if err != nil {
				return value.Binary{}, err
			}
			// First occurrence wins on duplicate keys.
			m.Set(key, item)
		}
		return value.BinaryMap(m), nil

	case msgpcode.IsExt(c):
		tm, err := dec.DecodeTime()
		if err != nil {
			return value.Binary{}, errors.Deserialization("timestamp extension", err)
		}
		return value.BinaryTimestamp(value.TimestampOf(tm)), nil

	default:
		return value.Binary{}, errors.New(errors.CodeDeserialization).
			Detail("unsupported msgpack code 0x%02x", c).
			Build()
	}
}
