package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/jsonguard/internal/dialect"
	"github.com/reoring/jsonguard/internal/engine"
	"github.com/reoring/jsonguard/internal/pointer"
	"github.com/reoring/jsonguard/internal/schemaerr"
)

type childKind int

const (
	oneSchema childKind = iota
	schemaList
	schemaMap
	// schemaOrList is items before 2020-12.
	schemaOrList
)

// children lists the keywords whose values contain subschemas. Everything
// else (enum, const, default, examples, unknown keywords) is data and is not
// searched for $id or anchors.
var children = map[string]childKind{
	"additionalItems":       oneSchema,
	"additionalProperties":  oneSchema,
	"contains":              oneSchema,
	"propertyNames":         oneSchema,
	"not":                   oneSchema,
	"if":                    oneSchema,
	"then":                  oneSchema,
	"else":                  oneSchema,
	"unevaluatedItems":      oneSchema,
	"unevaluatedProperties": oneSchema,
	"contentSchema":         oneSchema,
	"allOf":                 schemaList,
	"anyOf":                 schemaList,
	"oneOf":                 schemaList,
	"prefixItems":           schemaList,
	"items":                 schemaOrList,
	"properties":            schemaMap,
	"patternProperties":     schemaMap,
	"$defs":                 schemaMap,
	"definitions":           schemaMap,
	"dependentSchemas":      schemaMap,
	"dependencies":          schemaMap,
}

// index records the base URI of every schema position below ptr and registers
// the $id and anchors it finds.
func (c *Compiler) index(doc *document, v any, ptr, base string) error {
	obj, ok := v.(*engine.Object)
	if !ok {
		if _, isBool := v.(bool); isBool {
			doc.bases[ptr] = base
		}
		return nil
	}
	d := doc.dialect
	here := target{doc: doc, ptr: ptr}
	_, hasRef := obj.Get("$ref")
	if idv, ok := obj.Get(d.IDKeyword); ok && !(hasRef && d.RefOverridesSiblings) {
		id, isStr := idv.(string)
		if !isStr {
			return schemaerr.Keywordf(doc.uri+"#"+ptr, d.IDKeyword, "must be a string")
		}
		var err error
		if base, err = c.applyID(d, base, id, here); err != nil {
			return &schemaerr.Error{Location: doc.uri + "#" + ptr, Keyword: d.IDKeyword, Message: "invalid identifier", Cause: err}
		}
	}
	for _, kw := range d.AnchorKeywords {
		av, ok := obj.Get(kw)
		if !ok {
			continue
		}
		name, isStr := av.(string)
		if !isStr || name == "" {
			return schemaerr.Keywordf(doc.uri+"#"+ptr, kw, "must be a non-empty string")
		}
		c.anchors[base+"#"+name] = here
	}
	doc.bases[ptr] = base
	for _, key := range obj.Keys {
		kind, ok := children[key]
		if !ok {
			continue
		}
		child := ptr + "/" + pointer.Escape(key)
		if err := c.indexChild(doc, kind, obj.Values[key], child, base); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) indexChild(doc *document, kind childKind, v any, ptr, base string) error {
	switch kind {
	case schemaOrList, schemaList:
		if arr, ok := v.([]any); ok {
			for i, e := range arr {
				if err := c.index(doc, e, ptr+"/"+strconv.Itoa(i), base); err != nil {
					return err
				}
			}
			return nil
		}
		if kind == schemaList {
			return nil
		}
		return c.index(doc, v, ptr, base)
	case schemaMap:
		obj, ok := v.(*engine.Object)
		if !ok {
			return nil
		}
		for _, k := range obj.Keys {
			if err := c.index(doc, obj.Values[k], ptr+"/"+pointer.Escape(k), base); err != nil {
				return err
			}
		}
		return nil
	default:
		return c.index(doc, v, ptr, base)
	}
}

// applyID registers an identifier and returns the base URI for the subtree.
func (c *Compiler) applyID(d *dialect.Dialect, base, id string, here target) (string, error) {
	if strings.HasPrefix(id, "#") {
		if d.FragmentIDs && len(id) > 1 {
			docURI, _ := splitFragment(base)
			c.anchors[docURI+id] = here
		}
		return base, nil
	}
	resolved, err := resolveURI(base, id)
	if err != nil {
		return "", err
	}
	docURI, frag := splitFragment(resolved)
	if prev, dup := c.ids[docURI]; dup && prev != here {
		return "", fmt.Errorf("duplicate identifier %s", docURI)
	}
	c.ids[docURI] = here
	if frag != "" && d.FragmentIDs {
		c.anchors[docURI+"#"+frag] = here
	}
	return docURI, nil
}

// baseAt returns the base URI in effect at ptr.
func (c *Compiler) baseAt(doc *document, ptr string) string {
	for {
		if b, ok := doc.bases[ptr]; ok {
			return b
		}
		i := strings.LastIndexByte(ptr, '/')
		if i < 0 {
			return doc.uri
		}
		ptr = ptr[:i]
	}
}

// resolve locates the schema position ref refers to, fetching documents
// through the Reader when needed. inherit is the dialect of the referencing
// document.
func (c *Compiler) resolve(base, ref string, inherit *dialect.Dialect) (target, error) {
	u, err := resolveURI(base, ref)
	if err != nil {
		return target{}, fmt.Errorf("%w: %v", schemaerr.ErrUnresolvableRef, err)
	}
	docURI, raw := splitFragment(u)
	frag, err := pointer.FromFragment(raw)
	if err != nil {
		return target{}, fmt.Errorf("%w: %v", schemaerr.ErrUnresolvableRef, err)
	}
	if frag == "" || frag[0] == '/' {
		t, ok := c.ids[docURI]
		if !ok {
			doc, err := c.fetch(docURI, inherit)
			if err != nil {
				return target{}, err
			}
			t = target{doc: doc}
		}
		if frag != "/" {
			t.ptr += frag
		}
		c.opts.Logger.Debug("resolved reference", "ref", ref, "base", base, "target", t.doc.uri+"#"+t.ptr)
		return t, nil
	}
	key := docURI + "#" + frag
	if t, ok := c.anchors[key]; ok {
		return t, nil
	}
	if _, loaded := c.ids[docURI]; !loaded {
		if _, err := c.fetch(docURI, inherit); err != nil {
			return target{}, err
		}
		if t, ok := c.anchors[key]; ok {
			return t, nil
		}
	}
	return target{}, fmt.Errorf("%w: no anchor %q in %s", schemaerr.ErrUnresolvableRef, frag, docURI)
}

func (c *Compiler) fetch(docURI string, inherit *dialect.Dialect) (*document, error) {
	if doc, ok := c.docs[docURI]; ok {
		return doc, nil
	}
	data, err := c.read(docURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", schemaerr.ErrUnresolvableRef, docURI, err)
	}
	return c.addDocument(docURI, data, inherit)
}

// lookup walks ptr from v.
func lookup(v any, ptr string) (any, error) {
	toks, err := pointer.Split(ptr)
	if err != nil {
		return nil, err
	}
	for _, tok := range toks {
		switch t := v.(type) {
		case *engine.Object:
			next, ok := t.Get(tok)
			if !ok {
				return nil, fmt.Errorf("no member %q", tok)
			}
			v = next
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(t) || (len(tok) > 1 && tok[0] == '0') {
				return nil, fmt.Errorf("no element %q", tok)
			}
			v = t[i]
		default:
			return nil, fmt.Errorf("cannot descend into %T at %q", v, tok)
		}
	}
	return v, nil
}

// isLoadOrSchemaError reports whether err already carries a location.
func isLoadOrSchemaError(err error) bool {
	var le *schemaerr.LoadError
	var se *schemaerr.Error
	return errors.As(err, &le) || errors.As(err, &se)
}
