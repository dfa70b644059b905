package validator

import (
	"regexp"
	"sort"
)

// Properties applies named subschemas to the members present in the instance,
// in declaration order.
type Properties struct {
	Names   []string
	Schemas map[string]*Node
}

func (Properties) Name() string { return "properties" }

func (k Properties) Eval(s *State, inst any) bool {
	obj, ok := inst.(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range k.Names {
		v, present := obj[name]
		if !present {
			continue
		}
		if !s.Child(k.Schemas[name], v, name, "properties", name) {
			valid = false
			if s.Fast() {
				return false
			}
		}
	}
	return valid
}

// PatternSchema pairs a property-name regular expression with its schema.
type PatternSchema struct {
	Source string
	Re     *regexp.Regexp
	Node   *Node
}

// PatternProperties applies every matching pattern's schema to each member.
type PatternProperties struct {
	Patterns []PatternSchema
}

func (PatternProperties) Name() string { return "patternProperties" }

func (k PatternProperties) Eval(s *State, inst any) bool {
	obj, ok := inst.(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range sortedKeys(obj) {
		for _, p := range k.Patterns {
			if !p.Re.MatchString(name) {
				continue
			}
			if !s.Child(p.Node, obj[name], name, "patternProperties", p.Source) {
				valid = false
				if s.Fast() {
					return false
				}
			}
		}
	}
	return valid
}

// AdditionalProperties applies Node to members matched by neither the sibling
// properties nor patternProperties.
type AdditionalProperties struct {
	Node     *Node
	Named    map[string]struct{}
	Patterns []*regexp.Regexp
}

func (AdditionalProperties) Name() string { return "additionalProperties" }

func (k AdditionalProperties) Eval(s *State, inst any) bool {
	obj, ok := inst.(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range sortedKeys(obj) {
		if k.matched(name) {
			continue
		}
		var ok bool
		if k.Node.IsBool && !k.Node.Allow {
			s.FailAt("additionalProperties", name, CodeUnknownKey, map[string]any{"property": name})
		} else {
			ok = s.Child(k.Node, obj[name], name, "additionalProperties")
		}
		if !ok {
			valid = false
			if s.Fast() {
				return false
			}
		}
	}
	return valid
}

func (k AdditionalProperties) matched(name string) bool {
	if _, ok := k.Named[name]; ok {
		return true
	}
	for _, re := range k.Patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Required lists members that must be present.
type Required struct {
	Names []string
}

func (Required) Name() string { return "required" }

func (k Required) Eval(s *State, inst any) bool {
	obj, ok := inst.(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range k.Names {
		if _, present := obj[name]; present {
			continue
		}
		s.Fail("required", CodeRequired, map[string]any{"property": name})
		valid = false
		if s.Fast() {
			return false
		}
	}
	return valid
}

// PropertyNames validates every member name as a string instance.
type PropertyNames struct {
	Node *Node
}

func (PropertyNames) Name() string { return "propertyNames" }

func (k PropertyNames) Eval(s *State, inst any) bool {
	obj, ok := inst.(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, name := range sortedKeys(obj) {
		ok, causes := s.ProbeChild(k.Node, name, name, "propertyNames")
		if ok {
			continue
		}
		s.FailAt("propertyNames", name, CodeInvalidPropertyName, map[string]any{"property": name})
		s.Append(causes)
		valid = false
		if s.Fast() {
			return false
		}
	}
	return valid
}

// Dependencies covers dependentRequired, dependentSchemas and the older
// combined dependencies keyword. Keys keeps declaration order.
type Dependencies struct {
	Kw       string
	Keys     []string
	Required map[string][]string
	Schemas  map[string]*Node
}

func (k Dependencies) Name() string { return k.Kw }

func (k Dependencies) Eval(s *State, inst any) bool {
	obj, ok := inst.(map[string]any)
	if !ok {
		return true
	}
	valid := true
	for _, key := range k.Keys {
		if _, present := obj[key]; !present {
			continue
		}
		for _, req := range k.Required[key] {
			if _, present := obj[req]; present {
				continue
			}
			s.Fail(k.Kw, CodeDependency, map[string]any{"property": key, "required": req})
			valid = false
			if s.Fast() {
				return false
			}
		}
		if n, ok := k.Schemas[key]; ok {
			if !s.Sub(n, inst, k.Kw, key) {
				valid = false
				if s.Fast() {
					return false
				}
			}
		}
	}
	return valid
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
