package dialect

// shared returns the keywords every supported dialect has in common.
func shared() map[string]CompileFunc {
	return map[string]CompileFunc{
		"$ref":                 ref("$ref"),
		"type":                 compileType,
		"enum":                 compileEnum,
		"multipleOf":           compileMultipleOf,
		"minLength":            length("minLength", true),
		"maxLength":            length("maxLength", false),
		"pattern":              compilePattern,
		"format":               compileFormat,
		"minItems":             count("minItems", true),
		"maxItems":             count("maxItems", false),
		"uniqueItems":          compileUniqueItems,
		"minProperties":        count("minProperties", true),
		"maxProperties":        count("maxProperties", false),
		"required":             compileRequired,
		"properties":           compileProperties,
		"patternProperties":    compilePatternProperties,
		"additionalProperties": compileAdditionalProperties,
		"allOf":                compileAllOf,
		"anyOf":                compileAnyOf,
		"oneOf":                compileOneOf,
		"not":                  compileNot,
		"definitions":          definitions("definitions"),
	}
}

func with(base map[string]CompileFunc, extra map[string]CompileFunc) map[string]CompileFunc {
	for k, f := range extra {
		base[k] = f
	}
	return base
}

func without(base map[string]CompileFunc, names ...string) map[string]CompileFunc {
	for _, n := range names {
		delete(base, n)
	}
	return base
}

func draft4Keywords() map[string]CompileFunc {
	return with(shared(), map[string]CompileFunc{
		"minimum":          bound("minimum", "exclusiveMinimum", true, true),
		"maximum":          bound("maximum", "exclusiveMaximum", false, true),
		"exclusiveMinimum": draft4Exclusive("exclusiveMinimum", "minimum"),
		"exclusiveMaximum": draft4Exclusive("exclusiveMaximum", "maximum"),
		"items":            legacyItems,
		"additionalItems":  additionalItems,
		"dependencies":     dependencies,
	})
}

func draft6Keywords() map[string]CompileFunc {
	return with(shared(), map[string]CompileFunc{
		"minimum":          bound("minimum", "", true, false),
		"maximum":          bound("maximum", "", false, false),
		"exclusiveMinimum": exclusiveBound("exclusiveMinimum", true),
		"exclusiveMaximum": exclusiveBound("exclusiveMaximum", false),
		"const":            compileConst,
		"items":            legacyItems,
		"additionalItems":  additionalItems,
		"contains":         contains(false),
		"propertyNames":    compilePropertyNames,
		"dependencies":     dependencies,
	})
}

func draft7Keywords() map[string]CompileFunc {
	return with(draft6Keywords(), map[string]CompileFunc{
		"if":   compileIf,
		"then": branch("then"),
		"else": branch("else"),
	})
}

func draft2019Keywords() map[string]CompileFunc {
	m := with(draft7Keywords(), map[string]CompileFunc{
		"contains":          contains(true),
		"minContains":       containsBound("minContains"),
		"maxContains":       containsBound("maxContains"),
		"dependentRequired": dependentRequired,
		"dependentSchemas":  dependentSchemas,
		"$defs":             definitions("$defs"),
		"$recursiveRef":     ref("$recursiveRef"),
	})
	return without(m, "dependencies")
}

func draft2020Keywords() map[string]CompileFunc {
	m := with(draft2019Keywords(), map[string]CompileFunc{
		"prefixItems": prefixItems,
		"items":       items2020,
		"$dynamicRef": ref("$dynamicRef"),
	})
	return without(m, "additionalItems", "$recursiveRef")
}

// Dialect profiles.
var (
	Dialect4 = register(&Dialect{
		ID: Draft4, Name: "draft-04", IDKeyword: "id",
		FragmentIDs: true, RefOverridesSiblings: true,
		Keywords: draft4Keywords(),
	})
	Dialect6 = register(&Dialect{
		ID: Draft6, Name: "draft-06", IDKeyword: "$id",
		FragmentIDs: true, RefOverridesSiblings: true,
		Keywords: draft6Keywords(),
	})
	Dialect7 = register(&Dialect{
		ID: Draft7, Name: "draft-07", IDKeyword: "$id",
		FragmentIDs: true, RefOverridesSiblings: true,
		Keywords: draft7Keywords(),
	})
	Dialect2019 = register(&Dialect{
		ID: Draft19, Name: "2019-09", IDKeyword: "$id",
		AnchorKeywords: []string{"$anchor"},
		Keywords:       draft2019Keywords(),
	})
	Dialect2020 = register(&Dialect{
		ID: Draft20, Name: "2020-12", IDKeyword: "$id",
		AnchorKeywords: []string{"$anchor", "$dynamicAnchor"},
		Keywords:       draft2020Keywords(),
	})
)
