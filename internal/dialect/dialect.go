// Package dialect maps a JSON Schema dialect identifier to the set of keywords
// it understands and the compile function for each keyword.
//
// A profile is chosen once per document at load time. Keywords missing from a
// profile are ignored by the compiler.
package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reoring/jsonguard/internal/engine"
	"github.com/reoring/jsonguard/internal/schemaerr"
	"github.com/reoring/jsonguard/internal/validator"
)

// Canonical dialect identifiers.
const (
	Draft4  = "http://json-schema.org/draft-04/schema#"
	Draft6  = "http://json-schema.org/draft-06/schema#"
	Draft7  = "http://json-schema.org/draft-07/schema#"
	Draft19 = "https://json-schema.org/draft/2019-09/schema"
	Draft20 = "https://json-schema.org/draft/2020-12/schema"
)

// Scope is what a keyword compile function sees of the compiler: the node
// being compiled and the means to compile children and resolve references.
type Scope interface {
	// Location is the absolute URI of the node being compiled.
	Location() string
	Dialect() *Dialect
	// Subschema compiles v, found at the relative path seg below the current
	// node, and returns its node.
	Subschema(v any, seg ...string) (*validator.Node, error)
	// Resolve resolves ref against the current base URI.
	Resolve(kw, ref string) (*validator.Node, error)
	// Regexp compiles and caches a pattern.
	Regexp(pattern string) (*regexp.Regexp, error)
	// FormatAssertion reports whether format is asserted rather than annotated.
	FormatAssertion() bool
}

// CompileFunc compiles the value v of one keyword of obj. A nil Keyword with
// a nil error means the keyword is well formed but has nothing to evaluate on
// its own (for example "then", which "if" consumes).
type CompileFunc func(sc Scope, obj *engine.Object, v any) (validator.Keyword, error)

// Dialect is one dialect profile.
type Dialect struct {
	ID   string
	Name string
	// IDKeyword is "$id", or "id" for draft-04.
	IDKeyword string
	// AnchorKeywords define plain-name fragments ("$anchor", "$dynamicAnchor").
	AnchorKeywords []string
	// FragmentIDs: an id of the form "#name" defines an anchor (drafts 04-07).
	FragmentIDs bool
	// RefOverridesSiblings: keywords next to $ref are ignored (drafts 04-07).
	RefOverridesSiblings bool
	Keywords             map[string]CompileFunc
}

func (d *Dialect) String() string { return d.Name }

// Keyword returns the compile function for name, if the dialect knows it.
func (d *Dialect) Keyword(name string) (CompileFunc, bool) {
	f, ok := d.Keywords[name]
	return f, ok
}

var registry = map[string]*Dialect{}

func register(d *Dialect) *Dialect {
	registry[normalize(d.ID)] = d
	registry[d.Name] = d
	return d
}

// normalize drops the scheme and the empty fragment so http/https and a
// trailing '#' do not matter.
func normalize(id string) string {
	id = strings.TrimSuffix(strings.TrimSpace(id), "#")
	if i := strings.Index(id, "://"); i >= 0 {
		id = id[i+3:]
	}
	return id
}

// Lookup finds a dialect by its $schema URI or short name ("draft-07", "2020-12").
func Lookup(id string) (*Dialect, error) {
	if d, ok := registry[normalize(id)]; ok {
		return d, nil
	}
	if d, ok := registry[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", schemaerr.ErrUnsupportedDialect, id)
}

// Default is the dialect used when a document has no $schema.
func Default() *Dialect { return Dialect2020 }

// All returns every registered dialect, oldest first.
func All() []*Dialect {
	return []*Dialect{Dialect4, Dialect6, Dialect7, Dialect2019, Dialect2020}
}
