// Package dmap implements the SuperDARN DMap binary record format.
//
// DMap is a self-describing format: every record carries the names,
// types and shapes of its own fields, so a stream can be decoded without
// any out-of-band schema. This package is the codec only; per-product
// schemas and validation live in pkg/schema, and file handling and
// compression live in pkg/file.
//
// # Record Format
//
// A stream is a plain concatenation of records. Each record is laid out
// as follows, with every multi-byte fixed-width value little-endian:
//
//	code:   int32, always 0x00010001
//	size:   int32, total record bytes including code and size
//	snum:   int32, number of scalar fields
//	anum:   int32, number of array fields
//	snum scalar fields:
//	    name:  NUL-terminated text
//	    type:  one byte, the wire code of the primitive type
//	    value: Width(type) bytes, or NUL-terminated text for strings
//	anum array fields:
//	    name:  NUL-terminated text
//	    type:  one byte
//	    ndim:  int32, number of dimensions
//	    dims:  ndim int32s, innermost (fastest-varying) first
//	    data:  product(dims) * Width(type) bytes, flat
//
// A dimension product of zero is legal and yields an empty buffer. The
// sum of the encoded field sizes plus the 16-byte header must equal the
// declared size; any disagreement is a decode error, never a silent
// truncation.
//
// # Decoding
//
// Reader decodes records lazily, one call to Next per record, so a
// truncated trailing record surfaces as an error without discarding the
// records before it:
//
//	r := dmap.NewReader(data)
//	for {
//	    rec, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err // *dmap.DecodeError with offset and record index
//	    }
//	    // use rec
//	}
//
// Structural problems (unknown type code, stream ending inside a field,
// length mismatch, duplicate field name) are fatal for the affected
// record and the decoder does not continue past it: once the length
// framing is violated the following record boundary cannot be trusted.
//
// # Encoding
//
// Encode is deterministic and preserves field order. The wire width of
// every value is taken from the field's declared Type; it is never
// re-derived from the value's magnitude, so a Ushort that happens to
// hold 65 still travels as two bytes. Duplicate field names are rejected
// when a Record is built, not at encode time.
//
// # Concurrency
//
// The codec is stateless apart from the Reader's cursor. Distinct
// Readers over distinct buffers may run concurrently without
// coordination, and Records are safe to share once built.
package dmap
