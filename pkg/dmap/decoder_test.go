package dmap

import (
	"errors"
	"io"
	"testing"
)

func TestDecodeConcreteRecord(t *testing.T) {
	r := NewReader(stidPwr0Bytes)
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !rec.Equal(stidPwr0Record()) {
		t.Error("decoded record differs from reference record")
	}
	if rec.DeclaredLength() != len(stidPwr0Bytes) {
		t.Errorf("DeclaredLength() = %d, want %d", rec.DeclaredLength(), len(stidPwr0Bytes))
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("second Next = %v, want io.EOF", err)
	}
}

func TestDecodeMultipleRecords(t *testing.T) {
	data, err := EncodeAll([]*Record{stidPwr0Record(), stidPwr0Record(), stidPwr0Record()})
	if err != nil {
		t.Fatal(err)
	}
	recs, err := ReadAll(data)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("decoded %d records, want 3", len(recs))
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	if _, err := NewReader(nil).Next(); err != io.EOF {
		t.Errorf("Next on empty input = %v, want io.EOF", err)
	}
}

func TestDecodeZeroSizeArray(t *testing.T) {
	// Arrays whose dimension product is zero have historically been
	// mishandled, so they get a named test: decode to an empty buffer
	// and re-encode byte-identically.
	rec := NewRecord()
	if err := rec.AddScalar("nrang", Short, int16(75)); err != nil {
		t.Fatal(err)
	}
	if err := rec.AddArray("slist", Short, []int32{0}, []int16{}); err != nil {
		t.Fatal(err)
	}
	if err := rec.AddArray("acfd", Float, []int32{0, 18, 75}, []float32{}); err != nil {
		t.Fatal(err)
	}

	b, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	back, err := NewReader(b).Next()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	a, ok := back.GetArray("acfd")
	if !ok {
		t.Fatal("acfd missing after round trip")
	}
	if a.Len() != 0 {
		t.Errorf("zero-product array decoded with %d elements", a.Len())
	}
	if len(a.Dims()) != 3 {
		t.Errorf("dims = %v, want 3 entries preserved", a.Dims())
	}

	again, err := Encode(back)
	if err != nil {
		t.Fatalf("re-encode failed: %v", err)
	}
	if string(again) != string(b) {
		t.Error("zero-size array did not re-encode byte-identically")
	}
}

func TestDecodeErrors(t *testing.T) {
	clone := func() []byte {
		b := make([]byte, len(stidPwr0Bytes))
		copy(b, stidPwr0Bytes)
		return b
	}

	testCases := []struct {
		name    string
		corrupt func([]byte) []byte
		kind    ErrorKind
	}{
		{
			name:    "bad block magic",
			corrupt: func(b []byte) []byte { b[2] = 0xff; return b },
			kind:    KindBadHeader,
		},
		{
			name:    "negative declared length",
			corrupt: func(b []byte) []byte { b[7] = 0x80; return b },
			kind:    KindBadHeader,
		},
		{
			name:    "declared length past end of stream",
			corrupt: func(b []byte) []byte { b[4] = 0xff; return b },
			kind:    KindUnexpectedEOF,
		},
		{
			name:    "truncated mid-field",
			corrupt: func(b []byte) []byte { return b[:30] },
			kind:    KindUnexpectedEOF,
		},
		{
			name:    "truncated mid-header",
			corrupt: func(b []byte) []byte { return b[:10] },
			kind:    KindUnexpectedEOF,
		},
		{
			name:    "unknown type code",
			corrupt: func(b []byte) []byte { b[21] = 0x7f; return b }, // stid's type byte
			kind:    KindUnknownTypeCode,
		},
		{
			name: "structural byte corrupted without touching declared length",
			// Overwriting the scalar name's terminator shifts every
			// following parse, which must surface as an error rather
			// than silently wrong values.
			corrupt: func(b []byte) []byte { b[20] = 'x'; return b },
			kind:    0, // any structural decode error is acceptable
		},
		{
			name:    "negative dimension size",
			corrupt: func(b []byte) []byte { b[37] = 0x80; return b }, // high byte of dims[0]
			kind:    KindBadDimension,
		},
		{
			name: "declared length larger than field content",
			corrupt: func(b []byte) []byte {
				b = append(b, 0xaa) // trailing garbage inside the declared region
				b[4] = byte(len(b))
				return b
			},
			kind: KindLengthMismatch,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReader(tc.corrupt(clone())).Next()
			if err == nil {
				t.Fatal("expected a decode error")
			}
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("error %v is not a *DecodeError", err)
			}
			if tc.kind != 0 && derr.Kind != tc.kind {
				t.Errorf("kind = %v, want %v (error: %v)", derr.Kind, tc.kind, derr)
			}
			if derr.Record != 0 {
				t.Errorf("record index = %d, want 0", derr.Record)
			}
		})
	}
}

func TestDecodeDuplicateFieldName(t *testing.T) {
	// Hand-build a record whose two scalars share a name; the encoder
	// cannot produce this, the builder rejects it.
	body := []byte{}
	for i := 0; i < 2; i++ {
		body = append(body, 'c', 'p', 0x00) // name
		body = append(body, byte(Short))
		body = append(body, 0x09, 0x00)
	}
	data := make([]byte, 0, recordHeaderSize+len(body))
	data = appendUint32(data, blockMagic)
	data = appendUint32(data, uint32(recordHeaderSize+len(body)))
	data = appendUint32(data, 2)
	data = appendUint32(data, 0)
	data = append(data, body...)

	_, err := NewReader(data).Next()
	var derr *DecodeError
	if !errors.As(err, &derr) || derr.Kind != KindDuplicateField {
		t.Fatalf("err = %v, want duplicate field error", err)
	}
	if derr.Field != "cp" {
		t.Errorf("Field = %q, want %q", derr.Field, "cp")
	}
}

func TestDecodeStringArrayRejected(t *testing.T) {
	body := []byte{'c', 'o', 'm', 'b', 'f', 0x00, byte(String)}
	data := make([]byte, 0, recordHeaderSize+len(body))
	data = appendUint32(data, blockMagic)
	data = appendUint32(data, uint32(recordHeaderSize+len(body)))
	data = appendUint32(data, 0)
	data = appendUint32(data, 1)
	data = append(data, body...)

	_, err := NewReader(data).Next()
	var derr *DecodeError
	if !errors.As(err, &derr) || derr.Kind != KindUnsupportedArrayType {
		t.Fatalf("err = %v, want unsupported array type error", err)
	}
}

func TestDecodeErrorReportsRecordIndex(t *testing.T) {
	good, err := Encode(stidPwr0Record())
	if err != nil {
		t.Fatal(err)
	}
	bad := make([]byte, len(stidPwr0Bytes))
	copy(bad, stidPwr0Bytes)
	bad[21] = 0x7f // unknown type code in the second record

	data := append(append([]byte{}, good...), bad...)
	recs, err := ReadAll(data)
	if err == nil {
		t.Fatal("expected a decode error on the second record")
	}
	if len(recs) != 1 {
		t.Errorf("ReadAll kept %d good records, want 1", len(recs))
	}
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if derr.Record != 1 {
		t.Errorf("record index = %d, want 1", derr.Record)
	}
	if derr.Offset <= int64(len(good)) {
		t.Errorf("offset = %d, want inside the second record", derr.Offset)
	}
}

func TestReaderDoesNotAdvancePastCorruptRecord(t *testing.T) {
	bad := make([]byte, len(stidPwr0Bytes))
	copy(bad, stidPwr0Bytes)
	bad[21] = 0x7f

	r := NewReader(bad)
	if _, err := r.Next(); err == nil {
		t.Fatal("expected a decode error")
	}
	if r.Offset() != 0 {
		t.Errorf("reader advanced to offset %d past a corrupt record", r.Offset())
	}
}
