// Package validator evaluates JSON values against a compiled schema graph.
//
// A graph is a set of *Node values produced by the compiler. Nodes are
// immutable once compilation finishes and may form cycles through $ref; all
// per-call state lives in State, so one graph can be evaluated from many
// goroutines at once.
package validator

import "strings"

// Mode selects an evaluation strategy.
type Mode int

const (
	// Full collects every violation.
	Full Mode = iota
	// Fast stops at the first violation.
	Fast
)

func (m Mode) String() string {
	if m == Fast {
		return "fast"
	}
	return "full"
}

// Node is a compiled schema.
type Node struct {
	// Location is the absolute URI of the schema, fragment included.
	Location string
	// Dialect is the dialect ID of the document the schema came from.
	Dialect string
	// IsBool marks a boolean schema; Allow is its value.
	IsBool bool
	Allow  bool
	// Keywords run in declaration order.
	Keywords []Keyword
}

// Keyword is one compiled constraint. Eval reports whether inst satisfies it
// and records violations on s.
type Keyword interface {
	Name() string
	Eval(s *State, inst any) bool
}

// KeywordLocation returns the absolute URI of keyword kw inside n.
func (n *Node) KeywordLocation(kw string) string {
	if kw == "" {
		return n.Location
	}
	if strings.HasSuffix(n.Location, "#") {
		return n.Location + "/" + kw
	}
	if !strings.Contains(n.Location, "#") {
		return n.Location + "#/" + kw
	}
	return n.Location + "/" + kw
}

// Violation is one failed constraint.
type Violation struct {
	// InstancePath points into the validated value (JSON Pointer, root "/").
	InstancePath string
	// SchemaPath is the evaluation path through keywords and $refs.
	SchemaPath string
	// SchemaLocation is the absolute URI of the failing keyword.
	SchemaLocation string
	Keyword        string
	Code           string
	Message        string
	Params         map[string]any
}

// Result is the outcome of one evaluation.
type Result struct {
	Valid      bool
	Violations []Violation
}
