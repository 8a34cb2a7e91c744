package dmap

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// All multi-byte fixed-width values in the format are little-endian.
var byteOrder = binary.LittleEndian

const (
	// blockMagic opens every record block.
	blockMagic = 0x00010001

	// recordHeaderSize covers the magic, the declared length and the
	// scalar and array counts, four little-endian int32s.
	recordHeaderSize = 16
)

// Reader decodes DMap records one at a time from an in-memory byte
// slice. It is forward-only and holds no resources beyond the cursor,
// so a caller may abandon it between records at any point.
//
// The input must already be decompressed; Reader knows nothing about
// files or compression.
type Reader struct {
	buf []byte
	off int64
	rec int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Offset returns the absolute byte offset of the next record.
func (r *Reader) Offset() int64 { return r.off }

// NumDecoded returns how many records have been decoded so far.
func (r *Reader) NumDecoded() int { return r.rec }

// Next decodes the next record. It returns io.EOF at the clean end of
// the input. On a *DecodeError the reader does not advance: the length
// framing is untrustworthy past a corrupted record, so decoding stops
// at that boundary.
func (r *Reader) Next() (*Record, error) {
	if r.off == int64(len(r.buf)) {
		return nil, io.EOF
	}
	if int64(len(r.buf))-r.off < recordHeaderSize {
		return nil, r.errorf(KindUnexpectedEOF, r.off, "", "stream ends inside record header")
	}

	cur := r.off
	code := int32(byteOrder.Uint32(r.buf[cur:]))
	if code != blockMagic {
		return nil, r.errorf(KindBadHeader, cur, "", "bad block magic 0x%08x", uint32(code))
	}
	size := int32(byteOrder.Uint32(r.buf[cur+4:]))
	if size < recordHeaderSize {
		return nil, r.errorf(KindBadHeader, cur+4, "", "declared record length %d", size)
	}
	end := r.off + int64(size)
	if end > int64(len(r.buf)) {
		return nil, r.errorf(KindUnexpectedEOF, cur+4, "",
			"declared record length %d exceeds remaining stream", size)
	}
	snum := int32(byteOrder.Uint32(r.buf[cur+8:]))
	anum := int32(byteOrder.Uint32(r.buf[cur+12:]))
	if snum < 0 || anum < 0 {
		return nil, r.errorf(KindBadHeader, cur+8, "", "negative field count %d/%d", snum, anum)
	}
	cur += recordHeaderSize

	rec := NewRecord()
	for i := int32(0); i < snum; i++ {
		if err := r.readScalar(rec, &cur, end); err != nil {
			return nil, err
		}
	}
	for i := int32(0); i < anum; i++ {
		if err := r.readArray(rec, &cur, end); err != nil {
			return nil, err
		}
	}
	if cur != end {
		return nil, r.errorf(KindLengthMismatch, cur, "",
			"fields consumed %d bytes, record declared %d", cur-r.off, size)
	}

	rec.declaredLength = int(size)
	r.off = end
	r.rec++
	return rec, nil
}

func (r *Reader) readScalar(rec *Record, cur *int64, end int64) error {
	name, err := r.readString(cur, end, "")
	if err != nil {
		return err
	}
	if *cur >= end {
		return r.errorf(KindUnexpectedEOF, *cur, name, "stream ends before type code")
	}
	typ, ok := TypeFromCode(r.buf[*cur])
	if !ok {
		return r.errorf(KindUnknownTypeCode, *cur, name, "code %d", r.buf[*cur])
	}
	*cur++

	var value any
	if typ == String {
		value, err = r.readString(cur, end, name)
		if err != nil {
			return err
		}
	} else {
		w := int64(typ.Width())
		if end-*cur < w {
			return r.errorf(KindUnexpectedEOF, *cur, name, "stream ends inside %v value", typ)
		}
		value = decodeScalarValue(typ, r.buf[*cur:*cur+w])
		*cur += w
	}

	s, err := NewScalar(name, typ, value)
	if err != nil {
		return r.errorf(KindBadHeader, *cur, name, "%v", err)
	}
	if err := rec.Add(s); err != nil {
		return r.errorf(KindDuplicateField, *cur, name, "")
	}
	return nil
}

func (r *Reader) readArray(rec *Record, cur *int64, end int64) error {
	name, err := r.readString(cur, end, "")
	if err != nil {
		return err
	}
	if *cur >= end {
		return r.errorf(KindUnexpectedEOF, *cur, name, "stream ends before type code")
	}
	typ, ok := TypeFromCode(r.buf[*cur])
	if !ok {
		return r.errorf(KindUnknownTypeCode, *cur, name, "code %d", r.buf[*cur])
	}
	if typ == String {
		return r.errorf(KindUnsupportedArrayType, *cur, name, "string arrays are not supported")
	}
	*cur++

	if end-*cur < 4 {
		return r.errorf(KindUnexpectedEOF, *cur, name, "stream ends before dimension count")
	}
	ndim := int32(byteOrder.Uint32(r.buf[*cur:]))
	*cur += 4
	if ndim <= 0 {
		return r.errorf(KindBadDimension, *cur-4, name, "dimension count %d", ndim)
	}
	if end-*cur < int64(ndim)*4 {
		return r.errorf(KindUnexpectedEOF, *cur, name, "stream ends inside dimension list")
	}

	dims := make([]int32, ndim)
	total := int64(1)
	for i := range dims {
		d := int32(byteOrder.Uint32(r.buf[*cur:]))
		*cur += 4
		if d < 0 {
			return r.errorf(KindBadDimension, *cur-4, name, "dimension size %d", d)
		}
		if d != 0 && total > math.MaxInt64/int64(d) {
			return r.errorf(KindBadDimension, *cur-4, name, "dimension product overflows")
		}
		dims[i] = d
		total *= int64(d)
	}

	// A dimension product of zero is legal: the buffer is simply empty.
	// Comparing elements before bytes keeps total*width from overflowing.
	if total > end-*cur {
		return r.errorf(KindUnexpectedEOF, *cur, name,
			"array declares %d elements, record has %d bytes left", total, end-*cur)
	}
	nbytes := total * int64(typ.Width())
	if end-*cur < nbytes {
		return r.errorf(KindUnexpectedEOF, *cur, name,
			"array needs %d data bytes, record has %d left", nbytes, end-*cur)
	}
	data := decodeArrayData(typ, r.buf[*cur:*cur+nbytes], int(total))
	*cur += nbytes

	a, err := NewArray(name, typ, dims, data)
	if err != nil {
		return r.errorf(KindBadDimension, *cur, name, "%v", err)
	}
	if err := rec.Add(a); err != nil {
		return r.errorf(KindDuplicateField, *cur, name, "")
	}
	return nil
}

// readString scans a NUL-terminated string without crossing the record
// boundary.
func (r *Reader) readString(cur *int64, end int64, field string) (string, error) {
	for i := *cur; i < end; i++ {
		if r.buf[i] == 0 {
			s := string(r.buf[*cur:i])
			*cur = i + 1
			return s, nil
		}
	}
	return "", r.errorf(KindUnexpectedEOF, *cur, field, "unterminated string")
}

func (r *Reader) errorf(kind ErrorKind, off int64, field, format string, args ...any) error {
	return &DecodeError{
		Kind:   kind,
		Offset: off,
		Record: r.rec,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}

func decodeScalarValue(typ Type, b []byte) any {
	switch typ {
	case Char:
		return int8(b[0])
	case Short:
		return int16(byteOrder.Uint16(b))
	case Int:
		return int32(byteOrder.Uint32(b))
	case Long:
		return int64(byteOrder.Uint64(b))
	case Uchar:
		return b[0]
	case Ushort:
		return byteOrder.Uint16(b)
	case Uint:
		return byteOrder.Uint32(b)
	case Ulong:
		return byteOrder.Uint64(b)
	case Float:
		return math.Float32frombits(byteOrder.Uint32(b))
	case Double:
		return math.Float64frombits(byteOrder.Uint64(b))
	}
	panic("dmap: decodeScalarValue on variable-width type")
}

func decodeArrayData(typ Type, b []byte, n int) any {
	switch typ {
	case Char:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(b[i])
		}
		return out
	case Short:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(byteOrder.Uint16(b[2*i:]))
		}
		return out
	case Int:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(byteOrder.Uint32(b[4*i:]))
		}
		return out
	case Long:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(byteOrder.Uint64(b[8*i:]))
		}
		return out
	case Uchar:
		out := make([]uint8, n)
		copy(out, b)
		return out
	case Ushort:
		out := make([]uint16, n)
		for i := range out {
			out[i] = byteOrder.Uint16(b[2*i:])
		}
		return out
	case Uint:
		out := make([]uint32, n)
		for i := range out {
			out[i] = byteOrder.Uint32(b[4*i:])
		}
		return out
	case Ulong:
		out := make([]uint64, n)
		for i := range out {
			out[i] = byteOrder.Uint64(b[8*i:])
		}
		return out
	case Float:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(byteOrder.Uint32(b[4*i:]))
		}
		return out
	case Double:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(byteOrder.Uint64(b[8*i:]))
		}
		return out
	}
	panic("dmap: decodeArrayData on unsupported type")
}

// ReadAll decodes every record in data. On a structural error the
// successfully decoded prefix is returned alongside the error, so a
// caller can keep the good records and report the bad boundary.
func ReadAll(data []byte) ([]*Record, error) {
	r := NewReader(data)
	var recs []*Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return recs, err
		}
		recs = append(recs, rec)
	}
}
