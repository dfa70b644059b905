package validator

import (
	"strconv"
	"strings"
)

// Type checks the JSON type. "integer" also satisfies "number".
type Type struct {
	Types []string
}

func (Type) Name() string { return "type" }

func (k Type) Eval(s *State, inst any) bool {
	got := TypeOf(inst)
	for _, t := range k.Types {
		if t == got || (t == TypeNumber && got == TypeInteger) {
			return true
		}
	}
	if got == "" {
		got = "unknown"
	}
	s.Fail("type", CodeInvalidType, map[string]any{"expected": strings.Join(k.Types, " or "), "got": got})
	return false
}

// Enum requires equality with one of Values.
type Enum struct {
	Values []any
}

func (Enum) Name() string { return "enum" }

func (k Enum) Eval(s *State, inst any) bool {
	for _, v := range k.Values {
		if Equal(v, inst) {
			return true
		}
	}
	s.Fail("enum", CodeInvalidEnum, map[string]any{"count": len(k.Values)})
	return false
}

// Const requires equality with Value.
type Const struct {
	Value any
}

func (Const) Name() string { return "const" }

func (k Const) Eval(s *State, inst any) bool {
	if Equal(k.Value, inst) {
		return true
	}
	s.Fail("const", CodeInvalidConst, nil)
	return false
}

// Ref delegates to the node a reference resolved to. Kw is "$ref",
// "$recursiveRef" or "$dynamicRef".
type Ref struct {
	Kw     string
	Target *Node
}

func (k Ref) Name() string { return k.Kw }

func (k Ref) Eval(s *State, inst any) bool {
	key, ok := s.enter(k.Target)
	if !ok {
		return true
	}
	defer s.leave(key)
	return s.Sub(k.Target, inst, k.Kw)
}

// AllOf requires every subschema to hold.
type AllOf struct {
	Nodes []*Node
}

func (AllOf) Name() string { return "allOf" }

func (k AllOf) Eval(s *State, inst any) bool {
	ok := true
	for i, n := range k.Nodes {
		if !s.Sub(n, inst, "allOf", strconv.Itoa(i)) {
			ok = false
			if s.Fast() {
				return false
			}
		}
	}
	return ok
}

// AnyOf requires at least one subschema to hold.
type AnyOf struct {
	Nodes []*Node
}

func (AnyOf) Name() string { return "anyOf" }

func (k AnyOf) Eval(s *State, inst any) bool {
	var causes []Violation
	matched := false
	for i, n := range k.Nodes {
		ok, got := s.Probe(n, inst, "anyOf", strconv.Itoa(i))
		if ok {
			matched = true
			if s.Fast() {
				return true
			}
			continue
		}
		causes = append(causes, got...)
	}
	if matched {
		return true
	}
	s.Fail("anyOf", CodeAnyOfNone, map[string]any{"branches": len(k.Nodes)})
	s.Append(causes)
	return false
}

// OneOf requires exactly one subschema to hold.
type OneOf struct {
	Nodes []*Node
}

func (OneOf) Name() string { return "oneOf" }

func (k OneOf) Eval(s *State, inst any) bool {
	var causes []Violation
	var matches []int
	for i, n := range k.Nodes {
		ok, got := s.Probe(n, inst, "oneOf", strconv.Itoa(i))
		if ok {
			matches = append(matches, i)
			if len(matches) > 1 && s.Fast() {
				break
			}
			continue
		}
		causes = append(causes, got...)
	}
	switch len(matches) {
	case 1:
		return true
	case 0:
		s.Fail("oneOf", CodeOneOfNone, map[string]any{"branches": len(k.Nodes)})
		s.Append(causes)
	default:
		s.Fail("oneOf", CodeOneOfMultiple, map[string]any{"matches": joinInts(matches)})
	}
	return false
}

// Not requires the subschema to fail.
type Not struct {
	Node *Node
}

func (Not) Name() string { return "not" }

func (k Not) Eval(s *State, inst any) bool {
	if ok, _ := s.Probe(k.Node, inst, "not"); !ok {
		return true
	}
	s.Fail("not", CodeNotAllowed, nil)
	return false
}

// Conditional implements if/then/else. Then and Else may be nil.
type Conditional struct {
	If, Then, Else *Node
}

func (Conditional) Name() string { return "if" }

func (k Conditional) Eval(s *State, inst any) bool {
	ok, _ := s.Probe(k.If, inst, "if")
	if ok {
		if k.Then == nil {
			return true
		}
		return s.Sub(k.Then, inst, "then")
	}
	if k.Else == nil {
		return true
	}
	return s.Sub(k.Else, inst, "else")
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
