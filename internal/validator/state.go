package validator

import (
	"fmt"

	"github.com/reoring/jsonguard/i18n"
	"github.com/reoring/jsonguard/internal/pointer"
)

// State is the per-call validation context. It is never shared between calls.
type State struct {
	mode   Mode
	inst   pointer.Path
	schema pointer.Path
	nodes  []*Node
	out    []Violation
	// quiet > 0 while probing branches in fast mode; nothing is recorded.
	quiet int
	// active holds the $ref targets currently being evaluated per instance location.
	active map[visit]struct{}
}

type visit struct {
	node *Node
	at   string
}

// Validate evaluates inst against root.
func Validate(root *Node, inst any, mode Mode) Result {
	s := &State{mode: mode}
	ok := s.Eval(root, inst)
	if ok {
		return Result{Valid: true}
	}
	return Result{Valid: false, Violations: s.out}
}

// Fast reports whether evaluation stops at the first violation.
func (s *State) Fast() bool { return s.mode == Fast }

// Eval evaluates inst against n at the current paths.
func (s *State) Eval(n *Node, inst any) bool {
	if n.IsBool {
		if n.Allow {
			return true
		}
		s.nodes = append(s.nodes, n)
		s.Fail("", CodeFalseSchema, nil)
		s.nodes = s.nodes[:len(s.nodes)-1]
		return false
	}
	s.nodes = append(s.nodes, n)
	defer func() { s.nodes = s.nodes[:len(s.nodes)-1] }()
	ok := true
	for _, kw := range n.Keywords {
		if !kw.Eval(s, inst) {
			ok = false
			if s.Fast() {
				return false
			}
		}
	}
	return ok
}

// Sub evaluates child against the same instance, extending the schema path.
func (s *State) Sub(child *Node, inst any, seg ...string) bool {
	s.schema.Push(seg...)
	ok := s.Eval(child, inst)
	s.schema.Pop(len(seg))
	return ok
}

// Child evaluates child against a member of the current instance.
func (s *State) Child(child *Node, inst any, tok string, seg ...string) bool {
	s.inst.Push(tok)
	ok := s.Sub(child, inst, seg...)
	s.inst.Pop(1)
	return ok
}

// Probe evaluates child without reporting. In full mode the violations the
// evaluation produced are returned so callers can attach them to their own.
func (s *State) Probe(child *Node, inst any, seg ...string) (bool, []Violation) {
	saved := s.out
	s.out = nil
	if s.Fast() {
		s.quiet++
	}
	ok := s.Sub(child, inst, seg...)
	if s.Fast() {
		s.quiet--
	}
	got := s.out
	s.out = saved
	return ok, got
}

// ProbeChild is Probe for a member of the current instance.
func (s *State) ProbeChild(child *Node, inst any, tok string, seg ...string) (bool, []Violation) {
	s.inst.Push(tok)
	ok, got := s.Probe(child, inst, seg...)
	s.inst.Pop(1)
	return ok, got
}

// Append records violations produced by an earlier Probe.
func (s *State) Append(v []Violation) {
	if s.quiet > 0 {
		return
	}
	s.out = append(s.out, v...)
}

// Fail records a violation of keyword kw at the current location.
func (s *State) Fail(kw, code string, params map[string]any) {
	s.FailAt(kw, "", code, params)
}

// FailAt records a violation for the instance member tok (empty: the instance itself).
func (s *State) FailAt(kw, tok, code string, params map[string]any) {
	if s.quiet > 0 {
		return
	}
	if s.Fast() && len(s.out) > 0 {
		return
	}
	if tok != "" {
		s.inst.Push(tok)
		defer s.inst.Pop(1)
	}
	schemaPath := s.schema.String()
	if kw != "" {
		schemaPath = pointer.Join(schemaPath, kw)
	}
	var loc string
	if n := len(s.nodes); n > 0 {
		loc = s.nodes[n-1].KeywordLocation(kw)
	}
	s.out = append(s.out, Violation{
		InstancePath:   s.inst.String(),
		SchemaPath:     schemaPath,
		SchemaLocation: loc,
		Keyword:        kw,
		Code:           code,
		Message:        i18n.T(code, stringify(params)),
		Params:         params,
	})
}

// enter marks target as active at the current instance location. It returns
// false when the pair is already active, which means a $ref cycle came back
// to the same place without consuming any input.
func (s *State) enter(target *Node) (visit, bool) {
	key := visit{node: target, at: s.inst.String()}
	if s.active == nil {
		s.active = make(map[visit]struct{})
	}
	if _, ok := s.active[key]; ok {
		return key, false
	}
	s.active[key] = struct{}{}
	return key, true
}

func (s *State) leave(key visit) { delete(s.active, key) }

func stringify(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}
