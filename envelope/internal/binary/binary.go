// Package binary provides bounds-checked little-endian primitives for the
// envelope wire layout. The Reader works directly over the input slice and
// hands out subslice views without copying.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when a read runs past the end of the input.
var ErrShortBuffer = errors.New("unexpected end of buffer")

// Reader decodes little-endian fields from a byte slice with position
// tracking. Byte reads return views into the underlying buffer; they are
// valid only for the buffer's lifetime.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader over buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// U8 reads one byte.
func (r *Reader) U8() (byte, error) {
	if r.Remaining() < 1 {
		return 0, r.wrapError(ErrShortBuffer)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if r.Remaining() < 2 {
		return 0, r.wrapError(ErrShortBuffer)
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if r.Remaining() < 4 {
		return 0, r.wrapError(ErrShortBuffer)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// I32 reads a little-endian int32.
func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

// Bytes reads exactly n bytes as a view into the underlying buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, r.wrapError(ErrShortBuffer)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at offset %d: %w", r.pos, err)
}

// ParseError carries the field being parsed and the offset of the failure.
type ParseError struct {
	Err    error
	Field  string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("envelope: %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError for the named field at the current offset.
func (r *Reader) WrapError(field string, err error) error {
	return &ParseError{Field: field, Offset: r.pos, Err: err}
}

// Writer builds a little-endian byte buffer by appending.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer, optionally pre-sizing the buffer.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// U8 appends one byte.
func (w *Writer) U8(v byte) {
	w.buf = append(w.buf, v)
}

// U16 appends a little-endian uint16.
func (w *Writer) U16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// U32 appends a little-endian uint32.
func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// I32 appends a little-endian int32.
func (w *Writer) I32(v int32) {
	w.U32(uint32(v))
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}
