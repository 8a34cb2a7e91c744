package dmap

import "fmt"

// Field is one named entry in a Record: either a *Scalar or an *Array.
type Field interface {
	Name() string
	Type() Type

	// encodedSize is the number of bytes the field occupies on the wire,
	// including its name, terminator and type code.
	encodedSize() int
}

// Scalar is a single typed value. Scalars are immutable once built so a
// well-formed Record can always be encoded.
type Scalar struct {
	name string
	typ  Type
	val  any
}

// NewScalar builds a scalar field. The dynamic type of value must match
// the declared Type exactly (int16 for Short, float32 for Float, and so
// on); the declared Type is the sole source of truth for wire width.
func NewScalar(name string, typ Type, value any) (*Scalar, error) {
	if name == "" {
		return nil, fmt.Errorf("dmap: scalar field with empty name")
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("dmap: scalar %q: invalid type %v", name, typ)
	}
	if !scalarValueOK(typ, value) {
		return nil, fmt.Errorf("dmap: scalar %q: value of type %T does not match declared type %v",
			name, value, typ)
	}
	return &Scalar{name: name, typ: typ, val: value}, nil
}

// MustScalar is NewScalar for statically known-good inputs; it panics on
// error. Intended for fixtures and tests.
func MustScalar(name string, typ Type, value any) *Scalar {
	s, err := NewScalar(name, typ, value)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Scalar) Name() string { return s.name }
func (s *Scalar) Type() Type   { return s.typ }

// Value returns the scalar value. Its dynamic type matches the declared
// Type: int8, int16, int32, int64, uint8, uint16, uint32, uint64,
// float32, float64 or string.
func (s *Scalar) Value() any { return s.val }

func (s *Scalar) encodedSize() int {
	n := len(s.name) + 1 + 1 // name, NUL, type code
	if s.typ == String {
		return n + len(s.val.(string)) + 1
	}
	return n + s.typ.Width()
}

// Array is a multi-dimensional typed buffer. Dimension sizes are kept in
// wire order (innermost, fastest-varying first) and the data buffer is
// flat with length equal to the product of the dimensions.
type Array struct {
	name string
	typ  Type
	dims []int32
	data any
}

// NewArray builds an array field. dims must have at least one entry and
// no negative entries; a zero entry is legal and implies an empty buffer.
// data must be a flat slice of the Go type matching typ ([]int16 for
// Short, []float32 for Float, ...) whose length equals the product of
// dims. String arrays are not part of the format and are rejected.
func NewArray(name string, typ Type, dims []int32, data any) (*Array, error) {
	if name == "" {
		return nil, fmt.Errorf("dmap: array field with empty name")
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("dmap: array %q: invalid type %v", name, typ)
	}
	if typ == String {
		return nil, fmt.Errorf("dmap: array %q: string arrays are not supported", name)
	}
	if len(dims) == 0 {
		return nil, fmt.Errorf("dmap: array %q: no dimensions", name)
	}
	want := 1
	for _, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("dmap: array %q: negative dimension %d", name, d)
		}
		want *= int(d)
	}
	got, ok := arrayLen(typ, data)
	if !ok {
		return nil, fmt.Errorf("dmap: array %q: data of type %T does not match declared type %v",
			name, data, typ)
	}
	if got != want {
		return nil, fmt.Errorf("dmap: array %q: data length %d does not match dimension product %d",
			name, got, want)
	}
	d := make([]int32, len(dims))
	copy(d, dims)
	return &Array{name: name, typ: typ, dims: d, data: data}, nil
}

// MustArray is NewArray for statically known-good inputs; it panics on
// error. Intended for fixtures and tests.
func MustArray(name string, typ Type, dims []int32, data any) *Array {
	a, err := NewArray(name, typ, dims, data)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Array) Name() string { return a.name }
func (a *Array) Type() Type   { return a.typ }

// Dims returns the dimension sizes in wire order. The caller must not
// modify the returned slice.
func (a *Array) Dims() []int32 { return a.dims }

// Data returns the flat value buffer as a typed slice.
func (a *Array) Data() any { return a.data }

// Len returns the number of elements in the flat buffer.
func (a *Array) Len() int {
	n, _ := arrayLen(a.typ, a.data)
	return n
}

func (a *Array) encodedSize() int {
	n := len(a.name) + 1 + 1        // name, NUL, type code
	n += 4 + 4*len(a.dims)          // dimension count, dimension sizes
	return n + a.Len()*a.typ.Width()
}

func scalarValueOK(typ Type, v any) bool {
	switch typ {
	case Char:
		_, ok := v.(int8)
		return ok
	case Short:
		_, ok := v.(int16)
		return ok
	case Int:
		_, ok := v.(int32)
		return ok
	case Long:
		_, ok := v.(int64)
		return ok
	case Uchar:
		_, ok := v.(uint8)
		return ok
	case Ushort:
		_, ok := v.(uint16)
		return ok
	case Uint:
		_, ok := v.(uint32)
		return ok
	case Ulong:
		_, ok := v.(uint64)
		return ok
	case Float:
		_, ok := v.(float32)
		return ok
	case Double:
		_, ok := v.(float64)
		return ok
	case String:
		_, ok := v.(string)
		return ok
	}
	return false
}

func arrayLen(typ Type, data any) (int, bool) {
	switch typ {
	case Char:
		s, ok := data.([]int8)
		return len(s), ok
	case Short:
		s, ok := data.([]int16)
		return len(s), ok
	case Int:
		s, ok := data.([]int32)
		return len(s), ok
	case Long:
		s, ok := data.([]int64)
		return len(s), ok
	case Uchar:
		s, ok := data.([]uint8)
		return len(s), ok
	case Ushort:
		s, ok := data.([]uint16)
		return len(s), ok
	case Uint:
		s, ok := data.([]uint32)
		return len(s), ok
	case Ulong:
		s, ok := data.([]uint64)
		return len(s), ok
	case Float:
		s, ok := data.([]float32)
		return len(s), ok
	case Double:
		s, ok := data.([]float64)
		return len(s), ok
	}
	return 0, false
}
