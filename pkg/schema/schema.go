// Package schema holds the per-product field contracts for SuperDARN
// DMap files and the validator that checks records against them.
//
// Schemas are pure data: a name and a table mapping field names to an
// expected primitive type and a requiredness flag. There is one generic
// validator; no product gets its own record type. New optional fields
// can be added to a table without breaking files that predate them.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sdarn/dmapio/pkg/dmap"
)

// FieldSpec is the contract for one named field.
type FieldSpec struct {
	Type     dmap.Type
	Optional bool
}

// Schema is the field contract for one SuperDARN product.
type Schema struct {
	Name   string
	Fields map[string]FieldSpec
}

// RequiredFields returns the names of all required fields, sorted.
func (s *Schema) RequiredFields() []string {
	var out []string
	for name, spec := range s.Fields {
		if !spec.Optional {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// For resolves a product name (case-insensitive) to its schema.
func For(product string) (*Schema, error) {
	s, ok := catalog[strings.ToLower(product)]
	if !ok {
		return nil, fmt.Errorf("schema: unknown product type %q", product)
	}
	return s, nil
}

// Products returns the known product names, sorted.
func Products() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ViolationKind classifies a schema non-conformance.
type ViolationKind int

const (
	// MissingRequiredField means a required field is absent.
	MissingRequiredField ViolationKind = iota + 1
	// TypeMismatch means a field is present with the wrong primitive type.
	TypeMismatch
)

// Violation is one schema non-conformance in one record. Validation
// reports every violation it finds, not just the first, so a caller can
// fix all problems in one pass.
type Violation struct {
	Kind     ViolationKind
	Field    string
	Expected dmap.Type
	Actual   dmap.Type // meaningful for TypeMismatch only
}

func (v Violation) String() string {
	switch v.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("missing required field %q (%v)", v.Field, v.Expected)
	case TypeMismatch:
		return fmt.Sprintf("field %q has type %v, expected %v", v.Field, v.Actual, v.Expected)
	}
	return fmt.Sprintf("unknown violation on field %q", v.Field)
}

// Validate checks one record against a schema and returns every
// violation found; an empty result means the record conforms. Fields
// present in the record but absent from the schema are tolerated —
// files grow new fields across instrument software versions, and
// unknown fields must never block reading. Optional fields are
// type-checked as strictly as required ones when present.
func Validate(rec *dmap.Record, s *Schema) []Violation {
	var out []Violation
	for _, name := range sortedFieldNames(s) {
		spec := s.Fields[name]
		f, ok := rec.Get(name)
		if !ok {
			if !spec.Optional {
				out = append(out, Violation{
					Kind:     MissingRequiredField,
					Field:    name,
					Expected: spec.Type,
				})
			}
			continue
		}
		if f.Type() != spec.Type {
			out = append(out, Violation{
				Kind:     TypeMismatch,
				Field:    name,
				Expected: spec.Type,
				Actual:   f.Type(),
			})
		}
	}
	return out
}

func sortedFieldNames(s *Schema) []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
