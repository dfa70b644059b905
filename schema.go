package jsonguard

import (
	"io"
	"strings"
	"time"

	"github.com/reoring/jsonguard/internal/dialect"
	"github.com/reoring/jsonguard/internal/validator"
)

// Schema is a compiled schema graph. It is immutable after Load and safe for
// concurrent use.
type Schema struct {
	root      *validator.Node
	dialect   *dialect.Dialect
	location  string
	documents int
	nodes     int
	loadTime  time.Duration
}

// Validate evaluates v against the schema. v is a generic JSON tree as
// produced by Decode or encoding/json; numbers may be json.Number or any Go
// numeric kind. Mismatches are reported in the Verdict, never as errors.
func (s *Schema) Validate(v any, mode Mode) Verdict {
	res := validator.Validate(s.root, v, mode)
	if res.Valid {
		return Verdict{Valid: true}
	}
	return Verdict{Valid: false, Violations: Violations(res.Violations)}
}

// Is reports whether v is valid, stopping at the first violation.
func (s *Schema) Is(v any) bool {
	return validator.Validate(s.root, v, Fast).Valid
}

// ValidateJSON decodes data and validates it. A decoding failure is returned
// as a Violations error and the Verdict is zero.
func (s *Schema) ValidateJSON(data []byte, mode Mode, opts ...DecodeOpt) (Verdict, error) {
	v, err := Decode(JSONBytes(data), opts...)
	if err != nil {
		return Verdict{}, err
	}
	return s.Validate(v, mode), nil
}

// ValidateReader decodes one JSON value from r and validates it.
func (s *Schema) ValidateReader(r io.Reader, mode Mode, opts ...DecodeOpt) (Verdict, error) {
	v, err := DecodeReader(r, opts...)
	if err != nil {
		return Verdict{}, err
	}
	return s.Validate(v, mode), nil
}

// Dialect returns the meta-schema URI of the root document.
func (s *Schema) Dialect() string { return s.dialect.ID }

// DialectName returns the short name of the root dialect, e.g. "2020-12".
func (s *Schema) DialectName() string { return s.dialect.Name }

// Location returns the absolute URI of the root schema.
func (s *Schema) Location() string { return strings.TrimSuffix(s.location, "#") }

// Documents reports how many documents were loaded.
func (s *Schema) Documents() int { return s.documents }

// Nodes reports how many schema nodes were compiled.
func (s *Schema) Nodes() int { return s.nodes }

// LoadTime reports how long Load took.
func (s *Schema) LoadTime() time.Duration { return s.loadTime }

// String describes the schema for logs.
func (s *Schema) String() string {
	return s.Location() + " (" + s.dialect.Name + ")"
}
