package validator

// JSON type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeString  = "string"
)

// TypeOf returns the JSON type of v. Integral numbers report "integer".
// Values that are not generic JSON report "".
func TypeOf(v any) string {
	switch v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	}
	if d, ok := Num(v); ok {
		if d.IsInt() {
			return TypeInteger
		}
		return TypeNumber
	}
	return ""
}

// IsNumber reports whether v is a JSON number.
func IsNumber(v any) bool {
	_, ok := Num(v)
	return ok
}

// Equal reports JSON equality: numbers compare by value, objects ignore key order.
func Equal(a, b any) bool {
	if da, ok := Num(a); ok {
		db, ok := Num(b)
		return ok && da.Cmp(db) == 0
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}
