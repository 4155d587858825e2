package transcode

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	codecerr "github.com/yuzamesan3/surrealdb-ffi-codec/errors"
	"github.com/yuzamesan3/surrealdb-ffi-codec/hint"
	"github.com/yuzamesan3/surrealdb-ffi-codec/value"
)

func mustForward(t *testing.T, v value.Dynamic) value.Binary {
	t.Helper()
	b, err := Forward(v)
	if err != nil {
		t.Fatalf("Forward(%v): %v", v, err)
	}
	return b
}

func TestForwardScalars(t *testing.T) {
	when := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	id := uuid.MustParse("9b002f56-85a6-4d5f-ad6e-ccd14b0b7da8")

	tests := []struct {
		name string
		in   value.Dynamic
		want value.Binary
	}{
		{"none", value.None(), value.BinaryNil()},
		{"null", value.Null(), value.BinaryNil()},
		{"bool", value.Bool(true), value.BinaryBool(true)},
		{"int", value.Int(-42), value.BinaryInt(-42)},
		{"float", value.Float(95.5), value.BinaryFloat(95.5)},
		{"decimal", value.Decimal("13.5719384719384"), value.BinaryFloat(13.5719384719384)},
		{"text", value.Text("hello"), value.BinaryText("hello")},
		{"datetime", value.Datetime(when), value.BinaryText("2024-01-20T10:00:00Z")},
		{"duration", value.Duration(90 * time.Minute), value.BinaryText("1h30m0s")},
		{"uuid", value.UUID(id), value.BinaryText("9b002f56-85a6-4d5f-ad6e-ccd14b0b7da8")},
		{"record keeps id only", value.Record("user", "john"), value.BinaryText("john")},
		{"record strips angle quotes", value.Record("user", "⟨complex id⟩"), value.BinaryText("complex id")},
		{"bytes", value.Bytes([]byte{1, 2, 3}), value.BinaryBytes([]byte{1, 2, 3})},
		{"other display fallback", value.Other("POINT(1 2)"), value.BinaryText("POINT(1 2)")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustForward(t, tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("Forward: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForwardDecimalPrecisionLoss(t *testing.T) {
	// 20 significant digits cannot survive a float64.
	got := mustForward(t, value.Decimal("1.2345678901234567890"))
	if got.Kind() != value.BinFloat {
		t.Fatalf("kind: got %v, want float", got.Kind())
	}
	if got.Float() != 1.2345678901234568 {
		t.Errorf("float: got %v", got.Float())
	}
}

func TestForwardBadDecimal(t *testing.T) {
	_, err := Forward(value.Decimal("not-a-number"))
	if err == nil {
		t.Fatal("expected error")
	}
	if codecerr.CodeOf(err) != codecerr.CodeTypeConversion {
		t.Errorf("code: got %v, want type_conversion", codecerr.CodeOf(err))
	}
}

func TestForwardNested(t *testing.T) {
	inner := value.NewObject()
	inner.Set("id", value.Record("user", "john"))
	inner.Set("tags", value.Array(value.Text("a"), value.Int(1)))

	got := mustForward(t, value.ObjectValue(inner))
	if got.Kind() != value.BinMap {
		t.Fatalf("kind: got %v, want map", got.Kind())
	}

	m := got.Map()
	if keys := m.Keys(); len(keys) != 2 || keys[0] != "id" || keys[1] != "tags" {
		t.Errorf("key order: got %v", m.Keys())
	}

	idv, _ := m.Get("id")
	if idv.Text() != "john" {
		t.Errorf("id: got %v, want text john", idv)
	}

	tags, _ := m.Get("tags")
	if tags.Kind() != value.BinArray || len(tags.Arr()) != 2 {
		t.Fatalf("tags: got %v", tags)
	}
	if tags.Arr()[1].Int() != 1 {
		t.Errorf("tags[1]: got %v", tags.Arr()[1])
	}
}

func TestReverseWithoutHints(t *testing.T) {
	m := value.NewMap()
	m.Set("name", value.BinaryText("John Doe"))
	m.Set("created_at", value.BinaryText("2024-01-20T10:00:00Z"))

	got, err := Reverse(value.BinaryMap(m), nil)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	obj := got.Object()
	created, _ := obj.Get("created_at")
	if created.Kind() != value.KindText {
		t.Errorf("without hint, created_at should stay text, got %v", created.Kind())
	}
}

func TestReverseWithHints(t *testing.T) {
	hints, err := hint.Parse(
		[]string{"created_at"},
		[]hint.RecordField{{Field: "id", Table: "user"}},
	)
	if err != nil {
		t.Fatalf("hint.Parse: %v", err)
	}

	m := value.NewMap()
	m.Set("id", value.BinaryText("john"))
	m.Set("created_at", value.BinaryText("2024-01-20T10:00:00Z"))
	m.Set("name", value.BinaryText("John Doe"))

	got, err := Reverse(value.BinaryMap(m), hints)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	obj := got.Object()

	id, _ := obj.Get("id")
	if id.Kind() != value.KindRecord {
		t.Fatalf("id kind: got %v, want record", id.Kind())
	}
	if rec := id.Record(); rec.Table != "user" || rec.ID != "john" {
		t.Errorf("record: got %v", rec)
	}

	created, _ := obj.Get("created_at")
	if created.Kind() != value.KindDatetime {
		t.Fatalf("created_at kind: got %v, want datetime", created.Kind())
	}
	want := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	if !created.Datetime().Equal(want) {
		t.Errorf("created_at: got %v, want %v", created.Datetime(), want)
	}

	name, _ := obj.Get("name")
	if name.Kind() != value.KindText || name.Text() != "John Doe" {
		t.Errorf("name: got %v", name)
	}
}

func TestReverseBadDatetime(t *testing.T) {
	hints, _ := hint.Parse([]string{"created_at"}, nil)

	m := value.NewMap()
	m.Set("created_at", value.BinaryText("yesterday-ish"))

	_, err := Reverse(value.BinaryMap(m), hints)
	if err == nil {
		t.Fatal("expected error")
	}
	if codecerr.CodeOf(err) != codecerr.CodeTypeConversion {
		t.Errorf("code: got %v, want type_conversion", codecerr.CodeOf(err))
	}
	var ce *codecerr.Error
	if !errors.As(err, &ce) {
		t.Fatal("not a structured error")
	}
	if len(ce.Path) == 0 || ce.Path[len(ce.Path)-1] != "created_at" {
		t.Errorf("path: got %v, want trailing created_at", ce.Path)
	}
}

func TestReverseTimestampIgnoresHints(t *testing.T) {
	// A record hint on the field must not stop a wire timestamp from
	// decoding as a datetime.
	hints, _ := hint.Parse([]string{"record:user:at"}, nil)

	when := time.Date(2024, 1, 20, 10, 0, 0, 500, time.UTC)
	m := value.NewMap()
	m.Set("at", value.BinaryTimestamp(value.TimestampOf(when)))

	got, err := Reverse(value.BinaryMap(m), hints)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	at, _ := got.Object().Get("at")
	if at.Kind() != value.KindDatetime {
		t.Fatalf("kind: got %v, want datetime", at.Kind())
	}
	if !at.Datetime().Equal(when) {
		t.Errorf("datetime: got %v, want %v", at.Datetime(), when)
	}
}

func TestReverseOverRangeUint(t *testing.T) {
	got, err := Reverse(value.BinaryUint(math.MaxUint64), nil)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if got.Kind() != value.KindText {
		t.Fatalf("kind: got %v, want text", got.Kind())
	}
	if got.Text() != "18446744073709551615" {
		t.Errorf("text: got %q", got.Text())
	}

	// In-range stays an integer.
	got, err = Reverse(value.BinaryUint(7), nil)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if got.Kind() != value.KindInt || got.Int() != 7 {
		t.Errorf("in-range uint: got %v", got)
	}
}

func TestRoundTripRecoverableKinds(t *testing.T) {
	when := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

	obj := value.NewObject()
	obj.Set("id", value.Record("user", "john"))
	obj.Set("name", value.Text("John Doe"))
	obj.Set("created_at", value.Datetime(when))
	obj.Set("score", value.Float(95.5))
	obj.Set("active", value.Bool(true))
	obj.Set("visits", value.Int(12))
	original := value.ObjectValue(obj)

	hints, err := hint.Parse(
		[]string{"created_at"},
		[]hint.RecordField{{Field: "id", Table: "user"}},
	)
	if err != nil {
		t.Fatalf("hint.Parse: %v", err)
	}

	wire := mustForward(t, original)
	back, err := Reverse(wire, hints)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	if !back.Equal(original) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", back, original)
	}
}

func TestRoundTripUnhintedDegradesToText(t *testing.T) {
	obj := value.NewObject()
	obj.Set("owner", value.Record("user", "john"))
	original := value.ObjectValue(obj)

	wire := mustForward(t, original)
	back, err := Reverse(wire, nil)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	owner, _ := back.Object().Get("owner")
	if owner.Kind() != value.KindText || owner.Text() != "john" {
		t.Errorf("unhinted record should degrade to text id, got %v", owner)
	}
}

func TestForwardErrorPathNested(t *testing.T) {
	inner := value.NewObject()
	inner.Set("price", value.Decimal("garbage"))
	outer := value.NewObject()
	outer.Set("item", value.ObjectValue(inner))

	_, err := Forward(value.ObjectValue(outer))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "item.price") {
		t.Errorf("error should carry the field path, got %v", err)
	}
}
