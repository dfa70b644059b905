package jsonguard

// Verdict is the outcome of one validation. Violations is empty iff Valid; in
// fast mode it holds at most one entry.
type Verdict struct {
	Valid      bool
	Violations Violations
}

// Err returns the violations as an error, or nil when the verdict is valid.
func (v Verdict) Err() error {
	if v.Valid || len(v.Violations) == 0 {
		return nil
	}
	return v.Violations
}

// Codes lists the violation codes in order.
func (v Verdict) Codes() []string {
	if len(v.Violations) == 0 {
		return nil
	}
	out := make([]string, len(v.Violations))
	for i, x := range v.Violations {
		out[i] = x.Code
	}
	return out
}
