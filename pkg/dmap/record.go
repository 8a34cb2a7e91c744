package dmap

import (
	"fmt"
	"reflect"
)

// Record is an ordered collection of uniquely named fields. Scalars and
// arrays keep their insertion order; on the wire all scalars of a record
// precede all arrays, with the relative order inside each group
// preserved.
type Record struct {
	fields []Field
	byName map[string]int

	// declaredLength is the record byte length announced by the stream
	// header, filled in by the decoder. Zero for records built in memory.
	declaredLength int
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{byName: make(map[string]int)}
}

// Add appends a field to the record. Duplicate names are rejected here,
// at construction time, so encoding never has to deal with them.
func (r *Record) Add(f Field) error {
	if _, dup := r.byName[f.Name()]; dup {
		return fmt.Errorf("dmap: duplicate field %q in record", f.Name())
	}
	r.byName[f.Name()] = len(r.fields)
	r.fields = append(r.fields, f)
	return nil
}

// AddScalar builds a scalar field and appends it.
func (r *Record) AddScalar(name string, typ Type, value any) error {
	s, err := NewScalar(name, typ, value)
	if err != nil {
		return err
	}
	return r.Add(s)
}

// AddArray builds an array field and appends it.
func (r *Record) AddArray(name string, typ Type, dims []int32, data any) error {
	a, err := NewArray(name, typ, dims, data)
	if err != nil {
		return err
	}
	return r.Add(a)
}

// Fields returns all fields in insertion order. The caller must not
// modify the returned slice.
func (r *Record) Fields() []Field { return r.fields }

// NumFields returns the number of fields in the record.
func (r *Record) NumFields() int { return len(r.fields) }

// Scalars returns the scalar fields in insertion order.
func (r *Record) Scalars() []*Scalar {
	out := make([]*Scalar, 0, len(r.fields))
	for _, f := range r.fields {
		if s, ok := f.(*Scalar); ok {
			out = append(out, s)
		}
	}
	return out
}

// Arrays returns the array fields in insertion order.
func (r *Record) Arrays() []*Array {
	out := make([]*Array, 0, len(r.fields))
	for _, f := range r.fields {
		if a, ok := f.(*Array); ok {
			out = append(out, a)
		}
	}
	return out
}

// Get looks a field up by name.
func (r *Record) Get(name string) (Field, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.fields[i], true
}

// GetScalar looks a scalar field up by name.
func (r *Record) GetScalar(name string) (*Scalar, bool) {
	f, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	s, ok := f.(*Scalar)
	return s, ok
}

// GetArray looks an array field up by name.
func (r *Record) GetArray(name string) (*Array, bool) {
	f, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	a, ok := f.(*Array)
	return a, ok
}

// Int returns the value of an integer scalar field widened to int64,
// regardless of its declared width or signedness.
func (r *Record) Int(name string) (int64, bool) {
	s, ok := r.GetScalar(name)
	if !ok {
		return 0, false
	}
	switch v := s.val.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

// Float returns the value of a floating point scalar field as float64.
func (r *Record) Float(name string) (float64, bool) {
	s, ok := r.GetScalar(name)
	if !ok {
		return 0, false
	}
	switch v := s.val.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// Text returns the value of a string scalar field.
func (r *Record) Text(name string) (string, bool) {
	s, ok := r.GetScalar(name)
	if !ok {
		return "", false
	}
	v, ok := s.val.(string)
	return v, ok
}

// DeclaredLength returns the record byte length announced by the stream
// this record was decoded from, or zero for records built in memory.
func (r *Record) DeclaredLength() int { return r.declaredLength }

// EncodedSize returns the number of bytes the record occupies on the
// wire, header included.
func (r *Record) EncodedSize() int {
	n := recordHeaderSize
	for _, f := range r.fields {
		n += f.encodedSize()
	}
	return n
}

// Equal reports logical equality: same field names, types, values,
// dimensions and order. It deliberately ignores declared lengths, which
// only exist on decoded records.
func (r *Record) Equal(other *Record) bool {
	if other == nil || len(r.fields) != len(other.fields) {
		return false
	}
	for i, f := range r.fields {
		g := other.fields[i]
		if f.Name() != g.Name() || f.Type() != g.Type() {
			return false
		}
		switch fv := f.(type) {
		case *Scalar:
			gv, ok := g.(*Scalar)
			if !ok || fv.val != gv.val {
				return false
			}
		case *Array:
			gv, ok := g.(*Array)
			if !ok || !reflect.DeepEqual(fv.dims, gv.dims) || !reflect.DeepEqual(fv.data, gv.data) {
				return false
			}
		}
	}
	return true
}
