package binary

import (
	"bytes"
	"errors"
	"testing"
)

func TestReaderFields(t *testing.T) {
	w := NewWriter(16)
	w.U8(0x7f)
	w.U16(0x0102)
	w.U32(0xdeadbeef)
	w.I32(-5)
	w.Raw([]byte{9, 8, 7})

	r := NewReader(w.Bytes())

	if v, err := r.U8(); err != nil || v != 0x7f {
		t.Errorf("U8: got %v, %v", v, err)
	}
	if v, err := r.U16(); err != nil || v != 0x0102 {
		t.Errorf("U16: got %v, %v", v, err)
	}
	if v, err := r.U32(); err != nil || v != 0xdeadbeef {
		t.Errorf("U32: got %#x, %v", v, err)
	}
	if v, err := r.I32(); err != nil || v != -5 {
		t.Errorf("I32: got %v, %v", v, err)
	}
	b, err := r.Bytes(3)
	if err != nil || !bytes.Equal(b, []byte{9, 8, 7}) {
		t.Errorf("Bytes: got %v, %v", b, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", r.Remaining())
	}
}

func TestReaderLittleEndian(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	v, err := r.U32()
	if err != nil {
		t.Fatalf("U32: %v", err)
	}
	if v != 0x04030201 {
		t.Errorf("U32: got %#x, want 0x04030201", v)
	}
}

func TestReaderShortBuffer(t *testing.T) {
	tests := []struct {
		name string
		read func(r *Reader) error
		data []byte
	}{
		{"U8 empty", func(r *Reader) error { _, err := r.U8(); return err }, nil},
		{"U16 short", func(r *Reader) error { _, err := r.U16(); return err }, []byte{1}},
		{"U32 short", func(r *Reader) error { _, err := r.U32(); return err }, []byte{1, 2, 3}},
		{"Bytes past end", func(r *Reader) error { _, err := r.Bytes(4); return err }, []byte{1, 2}},
		{"Bytes negative", func(r *Reader) error { _, err := r.Bytes(-1); return err }, []byte{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewReader(tt.data))
			if !errors.Is(err, ErrShortBuffer) {
				t.Errorf("got %v, want ErrShortBuffer", err)
			}
		})
	}
}

func TestReaderBytesIsView(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	r := NewReader(data)

	b, err := r.Bytes(4)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	data[0] = 99
	if b[0] != 99 {
		t.Error("Bytes returned a copy, want a view into the input")
	}
}

func TestParseError(t *testing.T) {
	r := NewReader([]byte{1, 2})
	r.U8()

	err := r.WrapError("status code", ErrShortBuffer)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatal("not a ParseError")
	}
	if pe.Field != "status code" || pe.Offset != 1 {
		t.Errorf("got field=%q offset=%d", pe.Field, pe.Offset)
	}
	if !errors.Is(err, ErrShortBuffer) {
		t.Error("cause not unwrapped")
	}
}
