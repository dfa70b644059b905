package validator

import "strconv"

// Items applies Prefix positionally and Rest to every item past the prefix.
// PrefixKw and RestKw carry the keyword names of the dialect: "prefixItems" and
// "items" in 2020-12, "items" and "additionalItems" before it. Rest may be nil.
type Items struct {
	PrefixKw string
	Prefix   []*Node
	RestKw   string
	Rest     *Node
}

func (k Items) Name() string {
	if len(k.Prefix) > 0 || k.Rest == nil {
		return k.PrefixKw
	}
	return k.RestKw
}

func (k Items) Eval(s *State, inst any) bool {
	arr, ok := inst.([]any)
	if !ok {
		return true
	}
	valid := true
	for i, item := range arr {
		tok := strconv.Itoa(i)
		var ok bool
		switch {
		case i < len(k.Prefix):
			ok = s.Child(k.Prefix[i], item, tok, k.PrefixKw, tok)
		case k.Rest != nil:
			ok = s.Child(k.Rest, item, tok, k.RestKw)
		default:
			return valid
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

// Count bounds the number of array items or object members.
type Count struct {
	Kw    string
	Limit int
	Lower bool
}

func (k Count) Name() string { return k.Kw }

func (k Count) Eval(s *State, inst any) bool {
	var n int
	unit := "items"
	switch t := inst.(type) {
	case []any:
		if k.Kw != "minItems" && k.Kw != "maxItems" {
			return true
		}
		n = len(t)
	case map[string]any:
		if k.Kw != "minProperties" && k.Kw != "maxProperties" {
			return true
		}
		n, unit = len(t), "properties"
	default:
		return true
	}
	if (k.Lower && n >= k.Limit) || (!k.Lower && n <= k.Limit) {
		return true
	}
	code := CodeTooShort
	if !k.Lower {
		code = CodeTooLong
	}
	s.Fail(k.Kw, code, map[string]any{"limit": k.Limit, "unit": unit, "got": n})
	return false
}

// UniqueItems rejects arrays with two equal items.
type UniqueItems struct{}

func (UniqueItems) Name() string { return "uniqueItems" }

func (UniqueItems) Eval(s *State, inst any) bool {
	arr, ok := inst.([]any)
	if !ok {
		return true
	}
	for i := 1; i < len(arr); i++ {
		for j := 0; j < i; j++ {
			if Equal(arr[i], arr[j]) {
				s.Fail("uniqueItems", CodeNotUnique, map[string]any{"first": j, "second": i})
				return false
			}
		}
	}
	return true
}

// Contains requires between Min and Max items (Max < 0: unbounded) to match Node.
type Contains struct {
	Node *Node
	Min  int
	Max  int
}

func (Contains) Name() string { return "contains" }

func (k Contains) Eval(s *State, inst any) bool {
	arr, ok := inst.([]any)
	if !ok {
		return true
	}
	matched := 0
	for i, item := range arr {
		if ok, _ := s.ProbeChild(k.Node, item, strconv.Itoa(i), "contains"); ok {
			matched++
			// fast mode only needs to know the bounds are met
			if s.Fast() && k.Max < 0 && matched >= k.Min {
				return true
			}
		}
	}
	if matched < k.Min {
		s.Fail("contains", CodeContainsTooFew, map[string]any{"min": k.Min, "got": matched})
		return false
	}
	if k.Max >= 0 && matched > k.Max {
		s.Fail("contains", CodeContainsTooMany, map[string]any{"max": k.Max, "got": matched})
		return false
	}
	return true
}
