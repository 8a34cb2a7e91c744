// Package sdarn is the product-level entry point for SuperDARN DMap
// data: one read and one write path per product type (iqdat, rawacf,
// fitacf, grid, map, snd), each of which validates every record against
// the product's schema, plus a generic path that applies no schema at
// all.
//
// The typed paths refuse to hand over or persist non-conforming data.
// A read or write fails with a *ValidationError naming every offending
// record and field rather than stopping at the first problem: partial
// success on a scientific data file is not actionable, a complete
// diagnostic is.
//
// The generic path trusts the caller. ReadRecords and WriteRecords
// never consult a schema, and re-encoding a stream through them
// guarantees logical equality only — each field keeps the type it was
// decoded with, which is the wire width the original file used, but no
// product contract is enforced. This is a documented trust boundary,
// not an oversight.
package sdarn

import (
	"fmt"
	"strings"

	"github.com/sdarn/dmapio/pkg/dmap"
	"github.com/sdarn/dmapio/pkg/schema"
)

// RecordViolations is the full violation list for one record in a
// stream.
type RecordViolations struct {
	Index      int
	Violations []schema.Violation
}

// ValidationError reports every schema violation found across a whole
// stream of records.
type ValidationError struct {
	Product string
	Records []RecordViolations
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	total := 0
	for _, r := range e.Records {
		total += len(r.Violations)
	}
	fmt.Fprintf(&b, "sdarn: %d violation(s) of the %s schema in %d record(s)",
		total, e.Product, len(e.Records))
	for _, r := range e.Records {
		for _, v := range r.Violations {
			fmt.Fprintf(&b, "\n  record %d: %s", r.Index, v)
		}
	}
	return b.String()
}

// Read decodes a raw (already decompressed) DMap stream and validates
// every record against the named product's schema. Structural decode
// errors surface as *dmap.DecodeError; schema problems surface as a
// *ValidationError covering all records.
func Read(product string, data []byte) ([]*dmap.Record, error) {
	s, err := schema.For(product)
	if err != nil {
		return nil, err
	}
	recs, err := dmap.ReadAll(data)
	if err != nil {
		return nil, err
	}
	if verr := validateAll(s, recs); verr != nil {
		return nil, verr
	}
	return recs, nil
}

// Write validates every record against the named product's schema and
// then encodes them in order. No bytes are produced if any record is
// invalid.
func Write(product string, recs []*dmap.Record) ([]byte, error) {
	s, err := schema.For(product)
	if err != nil {
		return nil, err
	}
	if verr := validateAll(s, recs); verr != nil {
		return nil, verr
	}
	return dmap.EncodeAll(recs)
}

// ReadRecords is the generic, schema-less read path.
func ReadRecords(data []byte) ([]*dmap.Record, error) {
	return dmap.ReadAll(data)
}

// WriteRecords is the generic, schema-less write path.
func WriteRecords(recs []*dmap.Record) ([]byte, error) {
	return dmap.EncodeAll(recs)
}

func validateAll(s *schema.Schema, recs []*dmap.Record) error {
	var bad []RecordViolations
	for i, rec := range recs {
		if v := schema.Validate(rec, s); len(v) > 0 {
			bad = append(bad, RecordViolations{Index: i, Violations: v})
		}
	}
	if len(bad) > 0 {
		return &ValidationError{Product: s.Name, Records: bad}
	}
	return nil
}

// ReadIqdat reads and validates an iqdat stream.
func ReadIqdat(data []byte) ([]*dmap.Record, error) { return Read("iqdat", data) }

// ReadRawacf reads and validates a rawacf stream.
func ReadRawacf(data []byte) ([]*dmap.Record, error) { return Read("rawacf", data) }

// ReadFitacf reads and validates a fitacf stream.
func ReadFitacf(data []byte) ([]*dmap.Record, error) { return Read("fitacf", data) }

// ReadGrid reads and validates a grid stream.
func ReadGrid(data []byte) ([]*dmap.Record, error) { return Read("grid", data) }

// ReadMap reads and validates a map stream.
func ReadMap(data []byte) ([]*dmap.Record, error) { return Read("map", data) }

// ReadSnd reads and validates a snd stream.
func ReadSnd(data []byte) ([]*dmap.Record, error) { return Read("snd", data) }

// WriteIqdat validates and encodes an iqdat stream.
func WriteIqdat(recs []*dmap.Record) ([]byte, error) { return Write("iqdat", recs) }

// WriteRawacf validates and encodes a rawacf stream.
func WriteRawacf(recs []*dmap.Record) ([]byte, error) { return Write("rawacf", recs) }

// WriteFitacf validates and encodes a fitacf stream.
func WriteFitacf(recs []*dmap.Record) ([]byte, error) { return Write("fitacf", recs) }

// WriteGrid validates and encodes a grid stream.
func WriteGrid(recs []*dmap.Record) ([]byte, error) { return Write("grid", recs) }

// WriteMap validates and encodes a map stream.
func WriteMap(recs []*dmap.Record) ([]byte, error) { return Write("map", recs) }

// WriteSnd validates and encodes a snd stream.
func WriteSnd(recs []*dmap.Record) ([]byte, error) { return Write("snd", recs) }
