// Package compiler turns schema documents into a validator.Node graph.
//
// A Compiler is the resolution context of one load: it owns the document
// cache, the $id and anchor index and the node cache. Nodes are registered
// before their keywords are compiled, so a $ref cycle resolves to the node
// that is still being built instead of recursing.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/reoring/jsonguard/internal/dialect"
	"github.com/reoring/jsonguard/internal/engine"
	"github.com/reoring/jsonguard/internal/pointer"
	"github.com/reoring/jsonguard/internal/schemaerr"
	"github.com/reoring/jsonguard/internal/validator"
	"github.com/reoring/jsonguard/internal/yamldoc"
	jsonsrc "github.com/reoring/jsonguard/source/json"
)

// Reader fetches the raw bytes of a schema document.
type Reader interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

// Options configures a Compiler.
type Options struct {
	// Reader fetches documents that are not already in memory.
	Reader Reader
	// DefaultDialect applies to root documents without $schema.
	DefaultDialect *dialect.Dialect
	// FormatAssertion turns "format" into an assertion.
	FormatAssertion bool
	// ParseJSON decodes a JSON document into an ordered tree. Duplicate keys
	// must be reported as errors.
	ParseJSON func([]byte) (any, error)
	Logger    *slog.Logger
}

// Stats summarises a finished compilation.
type Stats struct {
	Documents int
	Nodes     int
}

// Compiler is the resolution context of a single load. It is not safe for
// concurrent use.
type Compiler struct {
	ctx     context.Context
	opts    Options
	docs    map[string]*document
	nodes   map[string]*validator.Node
	ids     map[string]target
	anchors map[string]target
	regexps map[string]*regexp.Regexp
	root    *dialect.Dialect
}

type document struct {
	uri     string
	value   any
	dialect *dialect.Dialect
	// bases maps the pointer of every indexed schema position to its base URI.
	bases map[string]string
}

// target is a schema position inside a loaded document.
type target struct {
	doc *document
	ptr string
}

// New returns a Compiler configured by opts.
func New(opts Options) *Compiler {
	if opts.DefaultDialect == nil {
		opts.DefaultDialect = dialect.Default()
	}
	if opts.ParseJSON == nil {
		opts.ParseJSON = ParseJSON
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Compiler{
		opts:    opts,
		docs:    make(map[string]*document),
		nodes:   make(map[string]*validator.Node),
		ids:     make(map[string]target),
		anchors: make(map[string]target),
		regexps: make(map[string]*regexp.Regexp),
	}
}

// ParseJSON decodes JSON with encoding/json into an ordered tree and rejects
// duplicate keys.
func ParseJSON(data []byte) (any, error) {
	src := engine.WrapWithEnforcement(jsonsrc.NewBytes(data), engine.EnforceOptions{OnDuplicate: engine.DupError})
	return engine.DecodeOrderedFromSource(src)
}

// Compile loads the document at location and compiles its root schema. When
// data is nil the document is fetched through the Reader.
func (c *Compiler) Compile(ctx context.Context, location string, data []byte) (*validator.Node, error) {
	c.ctx = ctx
	uri, err := NormalizeLocation(location)
	if err != nil {
		return nil, &schemaerr.LoadError{Location: location, Cause: err}
	}
	uri, _ = splitFragment(uri)
	if data == nil {
		if data, err = c.read(uri); err != nil {
			return nil, &schemaerr.LoadError{Location: uri, Cause: err}
		}
	}
	doc, err := c.addDocument(uri, data, nil)
	if err != nil {
		return nil, err
	}
	c.root = doc.dialect
	n, err := c.node(doc, "")
	if err != nil {
		return nil, err
	}
	c.opts.Logger.Debug("schema compiled", "location", uri, "dialect", doc.dialect.Name, "documents", len(c.docs), "nodes", len(c.nodes))
	return n, nil
}

// Dialect returns the dialect of the root document after Compile.
func (c *Compiler) Dialect() *dialect.Dialect { return c.root }

// Stats reports what the last Compile produced.
func (c *Compiler) Stats() Stats { return Stats{Documents: len(c.docs), Nodes: len(c.nodes)} }

func (c *Compiler) read(uri string) ([]byte, error) {
	if err := c.ctx.Err(); err != nil {
		return nil, err
	}
	if c.opts.Reader == nil {
		return nil, errors.New("no reader configured")
	}
	c.opts.Logger.Debug("fetching schema document", "location", uri)
	return c.opts.Reader.Read(c.ctx, uri)
}

// addDocument parses data, selects its dialect and indexes it. inherit is the
// dialect of the referencing document, nil for the root.
func (c *Compiler) addDocument(uri string, data []byte, inherit *dialect.Dialect) (*document, error) {
	v, err := c.parse(uri, data)
	if err != nil {
		return nil, &schemaerr.LoadError{Location: uri, Cause: err}
	}
	d := inherit
	if d == nil {
		d = c.opts.DefaultDialect
	}
	if obj, ok := v.(*engine.Object); ok {
		if sv, ok := obj.Get("$schema"); ok {
			s, isStr := sv.(string)
			if !isStr {
				return nil, schemaerr.Keywordf(uri+"#", "$schema", "must be a string")
			}
			if d, err = dialect.Lookup(s); err != nil {
				return nil, &schemaerr.Error{Location: uri + "#", Keyword: "$schema", Cause: err}
			}
		}
	}
	doc := &document{uri: uri, value: v, dialect: d, bases: make(map[string]string)}
	c.docs[uri] = doc
	c.ids[uri] = target{doc: doc, ptr: ""}
	if err := c.index(doc, v, "", uri); err != nil {
		return nil, err
	}
	// nodes are named after the root $id when there is one
	if b, ok := doc.bases[""]; ok {
		doc.uri = b
	}
	return doc, nil
}

func (c *Compiler) parse(uri string, data []byte) (any, error) {
	doc, _ := splitFragment(uri)
	lower := strings.ToLower(doc)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return yamldoc.Decode(data)
	}
	v, err := c.opts.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}

// node returns the compiled node at ptr in doc, compiling it on first use.
func (c *Compiler) node(doc *document, ptr string) (*validator.Node, error) {
	key := doc.uri + "#" + ptr
	if n, ok := c.nodes[key]; ok {
		return n, nil
	}
	v, err := lookup(doc.value, ptr)
	if err != nil {
		return nil, &schemaerr.Error{Location: key, Message: "no such location", Cause: fmt.Errorf("%w: %v", schemaerr.ErrUnresolvableRef, err)}
	}
	n := &validator.Node{Location: key, Dialect: doc.dialect.ID}
	c.nodes[key] = n
	switch t := v.(type) {
	case bool:
		n.IsBool, n.Allow = true, t
		return n, nil
	case *engine.Object:
		return n, c.compileObject(n, &scope{c: c, doc: doc, ptr: ptr, base: c.baseAt(doc, ptr)}, t)
	default:
		return nil, &schemaerr.Error{Location: key, Message: fmt.Sprintf("not a schema: %T", v)}
	}
}

func (c *Compiler) compileObject(n *validator.Node, sc *scope, obj *engine.Object) error {
	d := sc.doc.dialect
	keys := obj.Keys
	if _, hasRef := obj.Get("$ref"); hasRef && d.RefOverridesSiblings {
		keys = []string{"$ref"}
	}
	for _, name := range keys {
		f, ok := d.Keyword(name)
		if !ok {
			continue
		}
		kw, err := f(sc, obj, obj.Values[name])
		if err != nil {
			return err
		}
		if kw != nil {
			n.Keywords = append(n.Keywords, kw)
		}
	}
	return nil
}

func (c *Compiler) compileRegexp(pattern string) (*regexp.Regexp, error) {
	if re, ok := c.regexps[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.regexps[pattern] = re
	return re, nil
}

// scope implements dialect.Scope for one node.
type scope struct {
	c    *Compiler
	doc  *document
	ptr  string
	base string
}

func (s *scope) Location() string { return s.doc.uri + "#" + s.ptr }

func (s *scope) Dialect() *dialect.Dialect { return s.doc.dialect }

func (s *scope) FormatAssertion() bool { return s.c.opts.FormatAssertion }

func (s *scope) Regexp(p string) (*regexp.Regexp, error) { return s.c.compileRegexp(p) }

func (s *scope) Subschema(_ any, seg ...string) (*validator.Node, error) {
	ptr := s.ptr
	for _, tok := range seg {
		ptr += "/" + pointer.Escape(tok)
	}
	return s.c.node(s.doc, ptr)
}

func (s *scope) Resolve(kw, ref string) (*validator.Node, error) {
	t, err := s.c.resolve(s.base, ref, s.doc.dialect)
	if err != nil {
		if isLoadOrSchemaError(err) {
			return nil, err
		}
		return nil, &schemaerr.Error{Location: s.Location(), Keyword: kw, Message: "cannot resolve " + ref, Cause: err}
	}
	return s.c.node(t.doc, t.ptr)
}
