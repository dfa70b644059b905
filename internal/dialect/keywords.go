package dialect

import (
	"math"
	"strconv"

	"github.com/reoring/jsonguard/internal/engine"
	"github.com/reoring/jsonguard/internal/schemaerr"
	"github.com/reoring/jsonguard/internal/validator"
)

var typeNames = map[string]struct{}{
	validator.TypeNull: {}, validator.TypeBoolean: {}, validator.TypeObject: {},
	validator.TypeArray: {}, validator.TypeNumber: {}, validator.TypeString: {},
	validator.TypeInteger: {},
}

func isSchema(v any) bool {
	switch v.(type) {
	case *engine.Object, bool:
		return true
	}
	return false
}

// subschema compiles a schema-valued keyword and checks its shape first.
func subschema(sc Scope, kw string, v any, seg ...string) (*validator.Node, error) {
	if !isSchema(v) {
		return nil, schemaerr.Keywordf(sc.Location(), kw, "must be a schema (object or boolean)")
	}
	return sc.Subschema(v, seg...)
}

// schemaList compiles a non-empty array of schemas.
func schemaList(sc Scope, kw string, v any) ([]*validator.Node, error) {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, schemaerr.Keywordf(sc.Location(), kw, "must be a non-empty array of schemas")
	}
	nodes := make([]*validator.Node, len(arr))
	for i, e := range arr {
		n, err := subschema(sc, kw, e, kw, strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

// schemaMap compiles an object whose values are schemas, in key order.
func schemaMap(sc Scope, kw string, v any) ([]string, map[string]*validator.Node, error) {
	obj, ok := v.(*engine.Object)
	if !ok {
		return nil, nil, schemaerr.Keywordf(sc.Location(), kw, "must be an object")
	}
	nodes := make(map[string]*validator.Node, obj.Len())
	for _, k := range obj.Keys {
		n, err := subschema(sc, kw, obj.Values[k], kw, k)
		if err != nil {
			return nil, nil, err
		}
		nodes[k] = n
	}
	return obj.Keys, nodes, nil
}

func number(sc Scope, kw string, v any) (validator.Decimal, error) {
	d, ok := validator.Num(v)
	if !ok {
		return validator.Decimal{}, schemaerr.Keywordf(sc.Location(), kw, "must be a number")
	}
	return d, nil
}

func nonNegInt(sc Scope, kw string, v any) (int, error) {
	d, ok := validator.Num(v)
	if !ok || !d.IsInt() || d.Sign() < 0 {
		return 0, schemaerr.Keywordf(sc.Location(), kw, "must be a non-negative integer")
	}
	// limits past the int range cannot be reached by any instance
	if n, ok := d.Int64(); ok && n <= math.MaxInt {
		return int(n), nil
	}
	return math.MaxInt, nil
}

func stringArray(sc Scope, kw string, v any) ([]string, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, schemaerr.Keywordf(sc.Location(), kw, "must be an array of strings")
	}
	out := make([]string, 0, len(arr))
	seen := make(map[string]struct{}, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, schemaerr.Keywordf(sc.Location(), kw, "must be an array of strings")
		}
		if _, dup := seen[s]; dup {
			return nil, schemaerr.Keywordf(sc.Location(), kw, "duplicate entry %q", s)
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

func compileType(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	var names []string
	switch t := v.(type) {
	case string:
		names = []string{t}
	case []any:
		var err error
		if names, err = stringArray(sc, "type", t); err != nil {
			return nil, err
		}
	default:
		return nil, schemaerr.Keywordf(sc.Location(), "type", "must be a string or an array of strings")
	}
	for _, n := range names {
		if _, ok := typeNames[n]; !ok {
			return nil, schemaerr.Keywordf(sc.Location(), "type", "unknown type %q", n)
		}
	}
	return validator.Type{Types: names}, nil
}

func compileEnum(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, schemaerr.Keywordf(sc.Location(), "enum", "must be an array")
	}
	vals := make([]any, len(arr))
	for i, e := range arr {
		vals[i] = engine.Plain(e)
	}
	return validator.Enum{Values: vals}, nil
}

func compileConst(_ Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	return validator.Const{Value: engine.Plain(v)}, nil
}

// bound compiles minimum/maximum. In draft-04 the exclusive flag is a boolean
// sibling; later drafts give exclusiveMinimum/exclusiveMaximum their own number.
func bound(kw, exclusiveKw string, lower, draft4 bool) CompileFunc {
	return func(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
		limit, err := number(sc, kw, v)
		if err != nil {
			return nil, err
		}
		exclusive := false
		if draft4 {
			if ex, ok := obj.Get(exclusiveKw); ok {
				b, isBool := ex.(bool)
				if !isBool {
					return nil, schemaerr.Keywordf(sc.Location(), exclusiveKw, "must be a boolean")
				}
				exclusive = b
			}
		}
		return validator.Bound{Kw: kw, Limit: limit, Lower: lower, Exclusive: exclusive}, nil
	}
}

func exclusiveBound(kw string, lower bool) CompileFunc {
	return func(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
		limit, err := number(sc, kw, v)
		if err != nil {
			return nil, err
		}
		return validator.Bound{Kw: kw, Limit: limit, Lower: lower, Exclusive: true}, nil
	}
}

// draft4Exclusive checks the boolean form; minimum/maximum consume it.
func draft4Exclusive(kw, boundKw string) CompileFunc {
	return func(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
		if _, ok := v.(bool); !ok {
			return nil, schemaerr.Keywordf(sc.Location(), kw, "must be a boolean")
		}
		if _, ok := obj.Get(boundKw); !ok {
			return nil, schemaerr.Keywordf(sc.Location(), kw, "requires %s", boundKw)
		}
		return nil, nil
	}
}

func compileMultipleOf(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	d, err := number(sc, "multipleOf", v)
	if err != nil {
		return nil, err
	}
	if d.Sign() <= 0 {
		return nil, schemaerr.Keywordf(sc.Location(), "multipleOf", "must be greater than 0")
	}
	return validator.MultipleOf{Divisor: d}, nil
}

func length(kw string, lower bool) CompileFunc {
	return func(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
		n, err := nonNegInt(sc, kw, v)
		if err != nil {
			return nil, err
		}
		return validator.Length{Kw: kw, Limit: n, Lower: lower}, nil
	}
}

func count(kw string, lower bool) CompileFunc {
	return func(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
		n, err := nonNegInt(sc, kw, v)
		if err != nil {
			return nil, err
		}
		return validator.Count{Kw: kw, Limit: n, Lower: lower}, nil
	}
}

func compilePattern(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, schemaerr.Keywordf(sc.Location(), "pattern", "must be a string")
	}
	re, err := sc.Regexp(s)
	if err != nil {
		return nil, &schemaerr.Error{Location: sc.Location(), Keyword: "pattern", Message: "invalid regular expression", Cause: err}
	}
	return validator.Pattern{Re: re}, nil
}

func compileFormat(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	s, ok := v.(string)
	if !ok {
		return nil, schemaerr.Keywordf(sc.Location(), "format", "must be a string")
	}
	if !sc.FormatAssertion() {
		return nil, nil
	}
	check, known := validator.Formats[s]
	if !known {
		return nil, nil
	}
	return validator.Format{Format: s, Check: check}, nil
}

// legacyItems compiles "items" for drafts before 2020-12: a single schema
// applies to every item, an array is a tuple continued by additionalItems.
func legacyItems(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
	if arr, ok := v.([]any); ok {
		prefix := make([]*validator.Node, len(arr))
		for i, e := range arr {
			n, err := subschema(sc, "items", e, "items", strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			prefix[i] = n
		}
		k := validator.Items{PrefixKw: "items", Prefix: prefix, RestKw: "additionalItems"}
		if add, ok := obj.Get("additionalItems"); ok {
			rest, err := subschema(sc, "additionalItems", add, "additionalItems")
			if err != nil {
				return nil, err
			}
			k.Rest = rest
		}
		return k, nil
	}
	rest, err := subschema(sc, "items", v, "items")
	if err != nil {
		return nil, err
	}
	return validator.Items{PrefixKw: "items", RestKw: "items", Rest: rest}, nil
}

// additionalItems only matters next to an array-form items.
func additionalItems(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	if !isSchema(v) {
		return nil, schemaerr.Keywordf(sc.Location(), "additionalItems", "must be a schema (object or boolean)")
	}
	return nil, nil
}

// prefixItems compiles the 2020-12 tuple form, folding in a sibling "items".
func prefixItems(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
	prefix, err := schemaList(sc, "prefixItems", v)
	if err != nil {
		return nil, err
	}
	k := validator.Items{PrefixKw: "prefixItems", Prefix: prefix, RestKw: "items"}
	if rest, ok := obj.Get("items"); ok {
		if k.Rest, err = subschema(sc, "items", rest, "items"); err != nil {
			return nil, err
		}
	}
	return k, nil
}

// items2020 applies to every item unless prefixItems is present and owns it.
func items2020(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
	if _, ok := obj.Get("prefixItems"); ok {
		if !isSchema(v) {
			return nil, schemaerr.Keywordf(sc.Location(), "items", "must be a schema (object or boolean)")
		}
		return nil, nil
	}
	rest, err := subschema(sc, "items", v, "items")
	if err != nil {
		return nil, err
	}
	return validator.Items{PrefixKw: "prefixItems", RestKw: "items", Rest: rest}, nil
}

func compileUniqueItems(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, schemaerr.Keywordf(sc.Location(), "uniqueItems", "must be a boolean")
	}
	if !b {
		return nil, nil
	}
	return validator.UniqueItems{}, nil
}

// contains reads minContains/maxContains when withBounds is set (2019-09+).
func contains(withBounds bool) CompileFunc {
	return func(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
		n, err := subschema(sc, "contains", v, "contains")
		if err != nil {
			return nil, err
		}
		k := validator.Contains{Node: n, Min: 1, Max: -1}
		if !withBounds {
			return k, nil
		}
		if mv, ok := obj.Get("minContains"); ok {
			if k.Min, err = nonNegInt(sc, "minContains", mv); err != nil {
				return nil, err
			}
		}
		if mv, ok := obj.Get("maxContains"); ok {
			if k.Max, err = nonNegInt(sc, "maxContains", mv); err != nil {
				return nil, err
			}
		}
		return k, nil
	}
}

// containsBound validates minContains/maxContains; contains consumes them.
func containsBound(kw string) CompileFunc {
	return func(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
		_, err := nonNegInt(sc, kw, v)
		return nil, err
	}
}

func compileProperties(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	names, nodes, err := schemaMap(sc, "properties", v)
	if err != nil {
		return nil, err
	}
	return validator.Properties{Names: names, Schemas: nodes}, nil
}

func compilePatternProperties(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	names, nodes, err := schemaMap(sc, "patternProperties", v)
	if err != nil {
		return nil, err
	}
	k := validator.PatternProperties{Patterns: make([]validator.PatternSchema, 0, len(names))}
	for _, p := range names {
		re, err := sc.Regexp(p)
		if err != nil {
			return nil, &schemaerr.Error{Location: sc.Location(), Keyword: "patternProperties", Message: "invalid regular expression " + strconv.Quote(p), Cause: err}
		}
		k.Patterns = append(k.Patterns, validator.PatternSchema{Source: p, Re: re, Node: nodes[p]})
	}
	return k, nil
}

func compileAdditionalProperties(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
	n, err := subschema(sc, "additionalProperties", v, "additionalProperties")
	if err != nil {
		return nil, err
	}
	k := validator.AdditionalProperties{Node: n, Named: map[string]struct{}{}}
	if props, ok := obj.Get("properties"); ok {
		if po, ok := props.(*engine.Object); ok {
			for _, name := range po.Keys {
				k.Named[name] = struct{}{}
			}
		}
	}
	if pats, ok := obj.Get("patternProperties"); ok {
		if po, ok := pats.(*engine.Object); ok {
			for _, p := range po.Keys {
				re, err := sc.Regexp(p)
				if err != nil {
					return nil, &schemaerr.Error{Location: sc.Location(), Keyword: "patternProperties", Message: "invalid regular expression " + strconv.Quote(p), Cause: err}
				}
				k.Patterns = append(k.Patterns, re)
			}
		}
	}
	return k, nil
}

func compileRequired(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	names, err := stringArray(sc, "required", v)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	return validator.Required{Names: names}, nil
}

func compilePropertyNames(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	n, err := subschema(sc, "propertyNames", v, "propertyNames")
	if err != nil {
		return nil, err
	}
	return validator.PropertyNames{Node: n}, nil
}

// dependencies is the drafts 04-07 keyword: each value is either a list of
// property names or a schema.
func dependencies(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	obj, ok := v.(*engine.Object)
	if !ok {
		return nil, schemaerr.Keywordf(sc.Location(), "dependencies", "must be an object")
	}
	k := validator.Dependencies{Kw: "dependencies", Keys: obj.Keys, Required: map[string][]string{}, Schemas: map[string]*validator.Node{}}
	for _, key := range obj.Keys {
		dv := obj.Values[key]
		if _, isArr := dv.([]any); isArr {
			names, err := stringArray(sc, "dependencies", dv)
			if err != nil {
				return nil, err
			}
			k.Required[key] = names
			continue
		}
		n, err := subschema(sc, "dependencies", dv, "dependencies", key)
		if err != nil {
			return nil, err
		}
		k.Schemas[key] = n
	}
	return k, nil
}

func dependentRequired(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	obj, ok := v.(*engine.Object)
	if !ok {
		return nil, schemaerr.Keywordf(sc.Location(), "dependentRequired", "must be an object")
	}
	k := validator.Dependencies{Kw: "dependentRequired", Keys: obj.Keys, Required: map[string][]string{}}
	for _, key := range obj.Keys {
		names, err := stringArray(sc, "dependentRequired", obj.Values[key])
		if err != nil {
			return nil, err
		}
		k.Required[key] = names
	}
	return k, nil
}

func dependentSchemas(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	keys, nodes, err := schemaMap(sc, "dependentSchemas", v)
	if err != nil {
		return nil, err
	}
	return validator.Dependencies{Kw: "dependentSchemas", Keys: keys, Schemas: nodes}, nil
}

func compileAllOf(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	nodes, err := schemaList(sc, "allOf", v)
	if err != nil {
		return nil, err
	}
	return validator.AllOf{Nodes: nodes}, nil
}

func compileAnyOf(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	nodes, err := schemaList(sc, "anyOf", v)
	if err != nil {
		return nil, err
	}
	return validator.AnyOf{Nodes: nodes}, nil
}

func compileOneOf(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	nodes, err := schemaList(sc, "oneOf", v)
	if err != nil {
		return nil, err
	}
	return validator.OneOf{Nodes: nodes}, nil
}

func compileNot(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
	n, err := subschema(sc, "not", v, "not")
	if err != nil {
		return nil, err
	}
	return validator.Not{Node: n}, nil
}

func compileIf(sc Scope, obj *engine.Object, v any) (validator.Keyword, error) {
	n, err := subschema(sc, "if", v, "if")
	if err != nil {
		return nil, err
	}
	k := validator.Conditional{If: n}
	if tv, ok := obj.Get("then"); ok {
		if k.Then, err = subschema(sc, "then", tv, "then"); err != nil {
			return nil, err
		}
	}
	if ev, ok := obj.Get("else"); ok {
		if k.Else, err = subschema(sc, "else", ev, "else"); err != nil {
			return nil, err
		}
	}
	if k.Then == nil && k.Else == nil {
		return nil, nil
	}
	return k, nil
}

// branch checks then/else; without an "if" they are ignored.
func branch(kw string) CompileFunc {
	return func(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
		if !isSchema(v) {
			return nil, schemaerr.Keywordf(sc.Location(), kw, "must be a schema (object or boolean)")
		}
		return nil, nil
	}
}

func ref(kw string) CompileFunc {
	return func(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
		s, ok := v.(string)
		if !ok {
			return nil, schemaerr.Keywordf(sc.Location(), kw, "must be a string")
		}
		target, err := sc.Resolve(kw, s)
		if err != nil {
			return nil, err
		}
		return validator.Ref{Kw: kw, Target: target}, nil
	}
}

// definitions compiles every embedded schema so malformed but unreferenced
// definitions are reported at load time.
func definitions(kw string) CompileFunc {
	return func(sc Scope, _ *engine.Object, v any) (validator.Keyword, error) {
		_, _, err := schemaMap(sc, kw, v)
		return nil, err
	}
}
