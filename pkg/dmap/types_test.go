package dmap

import "testing"

func TestTypeRegistry(t *testing.T) {
	testCases := []struct {
		typ   Type
		code  byte
		width int
		name  string
	}{
		{Char, 1, 1, "char"},
		{Short, 2, 2, "short"},
		{Int, 3, 4, "int"},
		{Float, 4, 4, "float"},
		{Double, 8, 8, "double"},
		{String, 9, 0, "string"},
		{Long, 10, 8, "long"},
		{Uchar, 16, 1, "uchar"},
		{Ushort, 17, 2, "ushort"},
		{Uint, 18, 4, "uint"},
		{Ulong, 19, 8, "ulong"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.typ.Code(); got != tc.code {
				t.Errorf("Code() = %d, want %d", got, tc.code)
			}
			if got := tc.typ.Width(); got != tc.width {
				t.Errorf("Width() = %d, want %d", got, tc.width)
			}
			if got := tc.typ.String(); got != tc.name {
				t.Errorf("String() = %q, want %q", got, tc.name)
			}
			resolved, ok := TypeFromCode(tc.code)
			if !ok || resolved != tc.typ {
				t.Errorf("TypeFromCode(%d) = %v, %v", tc.code, resolved, ok)
			}
		})
	}
}

func TestTypeFromCodeUnknown(t *testing.T) {
	// The gaps in the code space must not resolve to anything.
	for _, code := range []byte{0, 5, 6, 7, 11, 15, 20, 42, 255} {
		if _, ok := TypeFromCode(code); ok {
			t.Errorf("TypeFromCode(%d) resolved, want unknown", code)
		}
	}
}
