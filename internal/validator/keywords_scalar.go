package validator

import (
	"regexp"
	"unicode/utf8"
)

// Bound is a numeric limit. Kw names the keyword that carries the limit
// ("minimum", "exclusiveMaximum", ...); with draft-04 booleans a "minimum"
// may be exclusive.
type Bound struct {
	Kw        string
	Limit     Decimal
	Lower     bool
	Exclusive bool
}

func (k Bound) Name() string { return k.Kw }

func (k Bound) Eval(s *State, inst any) bool {
	d, ok := Num(inst)
	if !ok {
		return true
	}
	c := d.Cmp(k.Limit)
	switch {
	case k.Lower && (c > 0 || (c == 0 && !k.Exclusive)):
		return true
	case !k.Lower && (c < 0 || (c == 0 && !k.Exclusive)):
		return true
	}
	op, code := ">=", CodeTooSmall
	if !k.Lower {
		op, code = "<=", CodeTooBig
	}
	if k.Exclusive {
		op = op[:1]
	}
	s.Fail(k.Kw, code, map[string]any{"op": op, "limit": k.Limit.String()})
	return false
}

// MultipleOf requires inst / Divisor to be an integer.
type MultipleOf struct {
	Divisor Decimal
}

func (MultipleOf) Name() string { return "multipleOf" }

func (k MultipleOf) Eval(s *State, inst any) bool {
	d, ok := Num(inst)
	if !ok {
		return true
	}
	if d.MultipleOf(k.Divisor) {
		return true
	}
	s.Fail("multipleOf", CodeNotMultipleOf, map[string]any{"divisor": k.Divisor.String()})
	return false
}

// Length bounds a string length in code points.
type Length struct {
	Kw    string
	Limit int
	Lower bool
}

func (k Length) Name() string { return k.Kw }

func (k Length) Eval(s *State, inst any) bool {
	str, ok := inst.(string)
	if !ok {
		return true
	}
	n := utf8.RuneCountInString(str)
	if (k.Lower && n >= k.Limit) || (!k.Lower && n <= k.Limit) {
		return true
	}
	code := CodeTooShort
	if !k.Lower {
		code = CodeTooLong
	}
	s.Fail(k.Kw, code, map[string]any{"limit": k.Limit, "unit": "characters", "got": n})
	return false
}

// Pattern requires a regular expression match somewhere in a string.
type Pattern struct {
	Re *regexp.Regexp
}

func (Pattern) Name() string { return "pattern" }

func (k Pattern) Eval(s *State, inst any) bool {
	str, ok := inst.(string)
	if !ok || k.Re.MatchString(str) {
		return true
	}
	s.Fail("pattern", CodePattern, map[string]any{"pattern": k.Re.String()})
	return false
}

// Format asserts a named string format.
type Format struct {
	Format string
	Check  func(string) bool
}

func (Format) Name() string { return "format" }

func (k Format) Eval(s *State, inst any) bool {
	str, ok := inst.(string)
	if !ok || k.Check(str) {
		return true
	}
	s.Fail("format", CodeInvalidFormat, map[string]any{"format": k.Format})
	return false
}
