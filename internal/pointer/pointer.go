// Package pointer implements RFC 6901 JSON Pointers as used for instance
// paths, schema paths and $ref fragments.
package pointer

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape encodes a single reference token.
func Escape(tok string) string { return escaper.Replace(tok) }

// Unescape decodes a single reference token.
func Unescape(tok string) string { return unescaper.Replace(tok) }

// Join appends tok to base. An empty base denotes the document root.
func Join(base, tok string) string {
	if base == "" || base == "/" {
		return "/" + Escape(tok)
	}
	return base + "/" + Escape(tok)
}

// Render builds a pointer from unescaped tokens. The root renders as "/".
func Render(tokens []string) string {
	if len(tokens) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}
	return b.String()
}

// Split parses a pointer into unescaped tokens. "" and "/" both denote the root.
func Split(ptr string) ([]string, error) {
	if ptr == "" || ptr == "/" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("pointer %q: must start with '/'", ptr)
	}
	parts := strings.Split(ptr[1:], "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts, nil
}

// FromFragment decodes a URI fragment (without '#') into a pointer string.
// Fragments are percent-encoded; the result is a plain RFC 6901 pointer.
func FromFragment(frag string) (string, error) {
	s, err := url.PathUnescape(frag)
	if err != nil {
		return "", fmt.Errorf("fragment %q: %w", frag, err)
	}
	return s, nil
}

// ToFragment renders a pointer for use after '#' in a URI.
func ToFragment(ptr string) string {
	if ptr == "/" {
		return ""
	}
	return ptr
}

// Path is a mutable stack of tokens used while walking a document.
type Path struct {
	tokens []string
}

// Push appends tokens.
func (p *Path) Push(tok ...string) { p.tokens = append(p.tokens, tok...) }

// PushIndex appends an array index.
func (p *Path) PushIndex(i int) { p.tokens = append(p.tokens, strconv.Itoa(i)) }

// Pop removes the last n tokens.
func (p *Path) Pop(n int) { p.tokens = p.tokens[:len(p.tokens)-n] }

// Len reports the depth of the path.
func (p *Path) Len() int { return len(p.tokens) }

// String renders the path as a pointer.
func (p *Path) String() string { return Render(p.tokens) }
