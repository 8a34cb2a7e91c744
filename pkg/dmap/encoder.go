package dmap

import (
	"fmt"
	"math"
)

// Encode serializes one record. Encoding is deterministic: scalars are
// written in insertion order, then arrays in insertion order, and the
// wire width of every value comes from the field's declared Type, never
// from the magnitude of the value. An error here means the record was
// mutated outside the constructors; records built through NewRecord,
// NewScalar and NewArray always encode.
func Encode(rec *Record) ([]byte, error) {
	scalars := rec.Scalars()
	arrays := rec.Arrays()

	buf := make([]byte, 0, rec.EncodedSize())
	buf = appendUint32(buf, blockMagic)
	buf = appendUint32(buf, uint32(rec.EncodedSize()))
	buf = appendUint32(buf, uint32(len(scalars)))
	buf = appendUint32(buf, uint32(len(arrays)))

	var err error
	for _, s := range scalars {
		if buf, err = appendScalar(buf, s); err != nil {
			return nil, err
		}
	}
	for _, a := range arrays {
		if buf, err = appendArray(buf, a); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// EncodeAll serializes records in order and concatenates them into a
// single stream.
func EncodeAll(recs []*Record) ([]byte, error) {
	var out []byte
	for i, rec := range recs {
		b, err := Encode(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func appendScalar(buf []byte, s *Scalar) ([]byte, error) {
	buf = appendString(buf, s.name)
	buf = append(buf, s.typ.Code())
	out, ok := appendValue(buf, s.typ, s.val)
	if !ok {
		return nil, fmt.Errorf("dmap: scalar %q: value of type %T does not match declared type %v",
			s.name, s.val, s.typ)
	}
	return out, nil
}

func appendArray(buf []byte, a *Array) ([]byte, error) {
	buf = appendString(buf, a.name)
	buf = append(buf, a.typ.Code())
	buf = appendUint32(buf, uint32(len(a.dims)))
	for _, d := range a.dims {
		buf = appendUint32(buf, uint32(d))
	}
	out, ok := appendArrayData(buf, a.typ, a.data)
	if !ok {
		return nil, fmt.Errorf("dmap: array %q: data of type %T does not match declared type %v",
			a.name, a.data, a.typ)
	}
	return out, nil
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	return append(buf, 0)
}

func appendUint32(buf []byte, v uint32) []byte {
	return byteOrder.AppendUint32(buf, v)
}

func appendValue(buf []byte, typ Type, v any) ([]byte, bool) {
	switch typ {
	case Char:
		x, ok := v.(int8)
		return append(buf, byte(x)), ok
	case Short:
		x, ok := v.(int16)
		return byteOrder.AppendUint16(buf, uint16(x)), ok
	case Int:
		x, ok := v.(int32)
		return byteOrder.AppendUint32(buf, uint32(x)), ok
	case Long:
		x, ok := v.(int64)
		return byteOrder.AppendUint64(buf, uint64(x)), ok
	case Uchar:
		x, ok := v.(uint8)
		return append(buf, x), ok
	case Ushort:
		x, ok := v.(uint16)
		return byteOrder.AppendUint16(buf, x), ok
	case Uint:
		x, ok := v.(uint32)
		return byteOrder.AppendUint32(buf, x), ok
	case Ulong:
		x, ok := v.(uint64)
		return byteOrder.AppendUint64(buf, x), ok
	case Float:
		x, ok := v.(float32)
		return byteOrder.AppendUint32(buf, math.Float32bits(x)), ok
	case Double:
		x, ok := v.(float64)
		return byteOrder.AppendUint64(buf, math.Float64bits(x)), ok
	case String:
		x, ok := v.(string)
		return appendString(buf, x), ok
	}
	return buf, false
}

func appendArrayData(buf []byte, typ Type, data any) ([]byte, bool) {
	switch typ {
	case Char:
		s, ok := data.([]int8)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = append(buf, byte(x))
		}
		return buf, true
	case Short:
		s, ok := data.([]int16)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint16(buf, uint16(x))
		}
		return buf, true
	case Int:
		s, ok := data.([]int32)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint32(buf, uint32(x))
		}
		return buf, true
	case Long:
		s, ok := data.([]int64)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint64(buf, uint64(x))
		}
		return buf, true
	case Uchar:
		s, ok := data.([]uint8)
		if !ok {
			return buf, false
		}
		return append(buf, s...), true
	case Ushort:
		s, ok := data.([]uint16)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint16(buf, x)
		}
		return buf, true
	case Uint:
		s, ok := data.([]uint32)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint32(buf, x)
		}
		return buf, true
	case Ulong:
		s, ok := data.([]uint64)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint64(buf, x)
		}
		return buf, true
	case Float:
		s, ok := data.([]float32)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint32(buf, math.Float32bits(x))
		}
		return buf, true
	case Double:
		s, ok := data.([]float64)
		if !ok {
			return buf, false
		}
		for _, x := range s {
			buf = byteOrder.AppendUint64(buf, math.Float64bits(x))
		}
		return buf, true
	}
	return buf, false
}
