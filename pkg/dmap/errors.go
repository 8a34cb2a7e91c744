package dmap

import "fmt"

// ErrorKind classifies structural decode failures.
type ErrorKind int

const (
	// KindBadHeader covers a wrong block magic or a non-positive or
	// impossible declared record length.
	KindBadHeader ErrorKind = iota + 1
	// KindUnknownTypeCode is a field type code outside the DMap type set.
	KindUnknownTypeCode
	// KindUnexpectedEOF means the stream ended inside a record or field.
	KindUnexpectedEOF
	// KindLengthMismatch means the bytes consumed by a record's fields
	// disagree with the record's declared length.
	KindLengthMismatch
	// KindDuplicateField is the same field name appearing twice in one
	// record.
	KindDuplicateField
	// KindBadDimension is a negative array dimension count or size.
	KindBadDimension
	// KindUnsupportedArrayType is an array of a type the format does not
	// carry in arrays (strings).
	KindUnsupportedArrayType
)

var kindNames = map[ErrorKind]string{
	KindBadHeader:            "bad record header",
	KindUnknownTypeCode:      "unknown type code",
	KindUnexpectedEOF:        "unexpected end of stream",
	KindLengthMismatch:       "record length mismatch",
	KindDuplicateField:       "duplicate field name",
	KindBadDimension:         "bad array dimension",
	KindUnsupportedArrayType: "unsupported array type",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("dmap.ErrorKind(%d)", int(k))
}

// DecodeError is a structural failure in the byte stream. It is fatal
// for the affected record: once the length framing is untrustworthy the
// decoder does not continue past it.
type DecodeError struct {
	Kind   ErrorKind
	Offset int64  // absolute byte offset where the problem was noticed
	Record int    // zero-based record index in the stream
	Field  string // field being parsed, when known
	Detail string
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("dmap: %s at offset %d (record %d", e.Kind, e.Offset, e.Record)
	if e.Field != "" {
		msg += fmt.Sprintf(", field %q", e.Field)
	}
	msg += ")"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets callers match on the error kind with errors.Is using a bare
// &DecodeError{Kind: ...} target.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Kind == 0 || t.Kind == e.Kind
}
