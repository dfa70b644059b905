// Package report renders validation verdicts for people and machines.
package report

import (
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"

	jsonguard "github.com/reoring/jsonguard"
)

// Entry is the wire form of one violation.
type Entry struct {
	InstancePath   string         `json:"instancePath"`
	SchemaPath     string         `json:"schemaPath"`
	SchemaLocation string         `json:"schemaLocation,omitempty"`
	Keyword        string         `json:"keyword,omitempty"`
	Code           string         `json:"code"`
	Message        string         `json:"message"`
	Params         map[string]any `json:"params,omitempty"`
}

// Document is the wire form of a verdict.
type Document struct {
	Source     string  `json:"source,omitempty"`
	Valid      bool    `json:"valid"`
	Violations []Entry `json:"violations"`
}

// Entries converts violations to their wire form. The result is never nil.
func Entries(vs jsonguard.Violations) []Entry {
	out := make([]Entry, 0, len(vs))
	for _, v := range vs {
		out = append(out, Entry{
			InstancePath:   v.InstancePath,
			SchemaPath:     v.SchemaPath,
			SchemaLocation: v.SchemaLocation,
			Keyword:        v.Keyword,
			Code:           v.Code,
			Message:        v.Message,
			Params:         v.Params,
		})
	}
	return out
}

// NewDocument builds the wire form of v. source names the validated input and
// may be empty.
func NewDocument(source string, v jsonguard.Verdict) Document {
	return Document{Source: source, Valid: v.Valid, Violations: Entries(v.Violations)}
}

// Summary is a one-line description of v.
func Summary(v jsonguard.Verdict) string {
	if v.Valid {
		return "valid"
	}
	n := len(v.Violations)
	if n == 1 {
		return "invalid: 1 violation"
	}
	return "invalid: " + strconv.Itoa(n) + " violations"
}

// Text writes a human-readable report: the summary line followed by one
// indented line per violation.
func Text(w io.Writer, v jsonguard.Verdict) error {
	if _, err := fmt.Fprintln(w, Summary(v)); err != nil {
		return err
	}
	for _, x := range v.Violations {
		if _, err := fmt.Fprintf(w, "  %s: %s (%s) [%s]\n", x.InstancePath, x.Message, x.Code, x.SchemaPath); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes v as a single JSON document followed by a newline.
func JSON(w io.Writer, v jsonguard.Verdict) error {
	return WriteDocument(w, NewDocument("", v))
}

// WriteDocument writes d as a single JSON document followed by a newline.
func WriteDocument(w io.Writer, d Document) error {
	return json.NewEncoder(w).Encode(d)
}
