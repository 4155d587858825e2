package envelope

import (
	"github.com/yuzamesan3/surrealdb-ffi-codec/envelope/internal/binary"
	"github.com/yuzamesan3/surrealdb-ffi-codec/errors"
	"github.com/yuzamesan3/surrealdb-ffi-codec/hint"
)

// Magic identifies an envelope buffer.
const Magic = 0x49464653 // "SFFI" little-endian

// Version is the only wire version this codec reads and writes.
const Version = 1

// Operation selects the query executor method to invoke.
type Operation uint8

const (
	OpSelect   Operation = 1
	OpCreate   Operation = 2
	OpUpdate   Operation = 3
	OpDelete   Operation = 4
	OpRawQuery Operation = 5
)

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	return op >= OpSelect && op <= OpRawQuery
}

func (op Operation) String() string {
	switch op {
	case OpSelect:
		return "select"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpRawQuery:
		return "raw_query"
	default:
		return "invalid"
	}
}

// PayloadKind tags what the opaque payload holds.
type PayloadKind uint8

const (
	PayloadNone   PayloadKind = 0
	PayloadParams PayloadKind = 1
	PayloadResult PayloadKind = 2
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadParams:
		return "params"
	case PayloadResult:
		return "result"
	default:
		return "invalid"
	}
}

const flagErrorPayload = 0x01

// Envelope is the decoded wrapper. After Decode, Payload and ErrorPayload
// alias the input buffer.
type Envelope struct {
	HintTokens   []string
	RecordHints  []hint.RecordField
	Payload      []byte
	ErrorPayload []byte
	StatusCode   int32
	Operation    Operation
	PayloadKind  PayloadKind
}

// Decode parses buf into an Envelope. Structural integrity (magic, version,
// every length and offset) is validated before any field is exposed; any
// violation fails with an invalid_request error.
func Decode(buf []byte) (*Envelope, error) {
	r := binary.NewReader(buf)

	magic, err := r.U32()
	if err != nil {
		return nil, invalid("header", err)
	}
	if magic != Magic {
		return nil, errors.InvalidRequest("bad envelope magic")
	}

	version, err := r.U8()
	if err != nil {
		return nil, invalid("header", err)
	}
	if version != Version {
		return nil, errors.New(errors.CodeInvalidRequest).
			Detail("unsupported envelope version %d", version).
			Build()
	}

	env := &Envelope{}

	op, err := r.U8()
	if err != nil {
		return nil, invalid("operation", err)
	}
	env.Operation = Operation(op)

	kind, err := r.U8()
	if err != nil {
		return nil, invalid("payload kind", err)
	}
	env.PayloadKind = PayloadKind(kind)

	flags, err := r.U8()
	if err != nil {
		return nil, invalid("flags", err)
	}
	if flags&^flagErrorPayload != 0 {
		return nil, errors.New(errors.CodeInvalidRequest).
			Detail("unknown envelope flags 0x%02x", flags).
			Build()
	}

	env.StatusCode, err = r.I32()
	if err != nil {
		return nil, invalid("status code", err)
	}

	env.HintTokens, err = decodeTokens(r)
	if err != nil {
		return nil, err
	}

	env.RecordHints, err = decodeRecordHints(r)
	if err != nil {
		return nil, err
	}

	payloadLen, err := r.U32()
	if err != nil {
		return nil, invalid("payload length", err)
	}
	env.Payload, err = r.Bytes(int(payloadLen))
	if err != nil {
		return nil, invalid("payload", err)
	}

	if flags&flagErrorPayload != 0 {
		errLen, err := r.U32()
		if err != nil {
			return nil, invalid("error payload length", err)
		}
		env.ErrorPayload, err = r.Bytes(int(errLen))
		if err != nil {
			return nil, invalid("error payload", err)
		}
	}

	if r.Remaining() != 0 {
		return nil, errors.New(errors.CodeInvalidRequest).
			Detail("%d trailing bytes after envelope", r.Remaining()).
			Build()
	}

	return env, nil
}

func decodeTokens(r *binary.Reader) ([]string, error) {
	count, err := r.U16()
	if err != nil {
		return nil, invalid("hint token count", err)
	}
	if count == 0 {
		return nil, nil
	}
	tokens := make([]string, count)
	for i := range tokens {
		n, err := r.U16()
		if err != nil {
			return nil, invalid("hint token length", err)
		}
		b, err := r.Bytes(int(n))
		if err != nil {
			return nil, invalid("hint token", err)
		}
		tokens[i] = string(b)
	}
	return tokens, nil
}

func decodeRecordHints(r *binary.Reader) ([]hint.RecordField, error) {
	count, err := r.U16()
	if err != nil {
		return nil, invalid("record hint count", err)
	}
	if count == 0 {
		return nil, nil
	}
	hints := make([]hint.RecordField, count)
	for i := range hints {
		fn, err := r.U16()
		if err != nil {
			return nil, invalid("record hint field length", err)
		}
		field, err := r.Bytes(int(fn))
		if err != nil {
			return nil, invalid("record hint field", err)
		}
		tn, err := r.U16()
		if err != nil {
			return nil, invalid("record hint table length", err)
		}
		table, err := r.Bytes(int(tn))
		if err != nil {
			return nil, invalid("record hint table", err)
		}
		hints[i] = hint.RecordField{Field: string(field), Table: string(table)}
	}
	return hints, nil
}

// Encode serializes env deterministically into a fresh buffer.
func Encode(env *Envelope) ([]byte, error) {
	if len(env.HintTokens) > 0xffff || len(env.RecordHints) > 0xffff {
		return nil, errors.Serialization("too many hints for envelope", nil)
	}

	w := binary.NewWriter(32 + len(env.Payload) + len(env.ErrorPayload))

	w.U32(Magic)
	w.U8(Version)
	w.U8(byte(env.Operation))
	w.U8(byte(env.PayloadKind))

	var flags byte
	if env.ErrorPayload != nil {
		flags |= flagErrorPayload
	}
	w.U8(flags)

	w.I32(env.StatusCode)

	w.U16(uint16(len(env.HintTokens)))
	for _, tok := range env.HintTokens {
		if len(tok) > 0xffff {
			return nil, errors.Serialization("hint token too long", nil)
		}
		w.U16(uint16(len(tok)))
		w.Raw([]byte(tok))
	}

	w.U16(uint16(len(env.RecordHints)))
	for _, rf := range env.RecordHints {
		if len(rf.Field) > 0xffff || len(rf.Table) > 0xffff {
			return nil, errors.Serialization("record hint too long", nil)
		}
		w.U16(uint16(len(rf.Field)))
		w.Raw([]byte(rf.Field))
		w.U16(uint16(len(rf.Table)))
		w.Raw([]byte(rf.Table))
	}

	w.U32(uint32(len(env.Payload)))
	w.Raw(env.Payload)

	if env.ErrorPayload != nil {
		w.U32(uint32(len(env.ErrorPayload)))
		w.Raw(env.ErrorPayload)
	}

	return w.Bytes(), nil
}

func invalid(field string, err error) *errors.Error {
	return errors.New(errors.CodeInvalidRequest).
		Cause(err).
		Detail("truncated envelope: %s", field).
		Build()
}
