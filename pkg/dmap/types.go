package dmap

import "fmt"

// Type identifies a DMap primitive type. The numeric value of a Type is
// its wire code, written as a single byte in front of every field value.
type Type uint8

const (
	Char   Type = 1  // signed 8-bit integer
	Short  Type = 2  // signed 16-bit integer
	Int    Type = 3  // signed 32-bit integer
	Float  Type = 4  // IEEE 754 single precision
	Double Type = 8  // IEEE 754 double precision
	String Type = 9  // NUL-terminated text
	Long   Type = 10 // signed 64-bit integer
	Uchar  Type = 16 // unsigned 8-bit integer
	Ushort Type = 17 // unsigned 16-bit integer
	Uint   Type = 18 // unsigned 32-bit integer
	Ulong  Type = 19 // unsigned 64-bit integer
)

// typeNames doubles as the membership table for valid wire codes.
var typeNames = map[Type]string{
	Char:   "char",
	Short:  "short",
	Int:    "int",
	Float:  "float",
	Double: "double",
	String: "string",
	Long:   "long",
	Uchar:  "uchar",
	Ushort: "ushort",
	Uint:   "uint",
	Ulong:  "ulong",
}

var typeWidths = map[Type]int{
	Char:   1,
	Short:  2,
	Int:    4,
	Float:  4,
	Double: 8,
	String: 0, // variable, NUL-terminated
	Long:   8,
	Uchar:  1,
	Ushort: 2,
	Uint:   4,
	Ulong:  8,
}

// TypeFromCode resolves a wire code into a Type. The second return value
// is false for codes outside the DMap type set.
func TypeFromCode(code byte) (Type, bool) {
	t := Type(code)
	_, ok := typeNames[t]
	return t, ok
}

// Code returns the wire code for the type.
func (t Type) Code() byte { return byte(t) }

// Width returns the fixed encoded size of a value of this type in bytes.
// String values are variable length and report a width of zero; their
// encoded size is the text length plus the terminator.
func (t Type) Width() int { return typeWidths[t] }

// Valid reports whether t is a member of the DMap type set.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("dmap.Type(%d)", byte(t))
}
