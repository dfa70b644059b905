package engine

import (
	"encoding/json"
	"io"
	"strconv"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// Object is a JSON object that remembers the order in which keys appeared.
// Schema documents decode into Objects so keyword declaration order survives.
type Object struct {
	Keys   []string
	Values map[string]any
}

// NewObject returns an empty Object with room for n keys.
func NewObject(n int) *Object {
	return &Object{Keys: make([]string, 0, n), Values: make(map[string]any, n)}
}

// Set stores v under k. A repeated key keeps its first position.
func (o *Object) Set(k string, v any) {
	if _, ok := o.Values[k]; !ok {
		o.Keys = append(o.Keys, k)
	}
	o.Values[k] = v
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	v, ok := o.Values[k]
	return v, ok
}

// Len reports the number of keys.
func (o *Object) Len() int { return len(o.Keys) }

type numberConv func(string) (any, error)

type decoder struct {
	src     TokenSource
	conv    numberConv
	ordered bool
}

// DecodeAnyFromSource builds an "any" value from the streaming token source.
// Numbers are kept as json.Number.
func DecodeAnyFromSource(src TokenSource) (any, error) {
	d := decoder{src: src, conv: jsonNumber}
	return d.decode()
}

// DecodeAnyFromSourceAsFloat64 builds an "any" tree but decodes numbers as float64.
func DecodeAnyFromSourceAsFloat64(src TokenSource) (any, error) {
	d := decoder{src: src, conv: func(s string) (any, error) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	}}
	return d.decode()
}

// DecodeOrderedFromSource builds a tree in which objects are *Object values and
// numbers are json.Number.
func DecodeOrderedFromSource(src TokenSource) (any, error) {
	d := decoder{src: src, conv: jsonNumber, ordered: true}
	return d.decode()
}

func jsonNumber(s string) (any, error) { return json.Number(s), nil }

func (d *decoder) decode() (any, error) {
	tok, err := d.src.NextToken()
	if err != nil {
		return nil, err
	}
	v, err := d.value(tok)
	if err != nil {
		return nil, err
	}
	// trailing garbage after the first value is a syntax error
	if _, err := d.src.NextToken(); err != io.EOF {
		if err == nil {
			return nil, errTrailingData
		}
		return nil, err
	}
	return v, nil
}

func (d *decoder) value(tok Token) (any, error) {
	switch tok.Kind {
	case KindBeginObject:
		return d.object()
	case KindBeginArray:
		return d.array()
	case KindString:
		return tok.String, nil
	case KindNumber:
		return d.conv(tok.Number)
	case KindBool:
		return tok.Bool, nil
	case KindNull:
		return nil, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func (d *decoder) object() (any, error) {
	var om *Object
	var m map[string]any
	if d.ordered {
		om = NewObject(4)
	} else {
		m = make(map[string]any)
	}
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndObject {
			if d.ordered {
				return om, nil
			}
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, io.ErrUnexpectedEOF
		}
		vt, err := d.src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		v, err := d.value(vt)
		if err != nil {
			return nil, err
		}
		if d.ordered {
			om.Set(tok.String, v)
		} else {
			m[tok.String] = v
		}
	}
}

func (d *decoder) array() (any, error) {
	arr := []any{}
	for {
		tok, err := d.src.NextToken()
		if err != nil {
			return nil, eofAsUnexpected(err)
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := d.value(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func eofAsUnexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

type syntaxError string

func (e syntaxError) Error() string { return string(e) }

const errTrailingData = syntaxError("invalid character after top-level value")

// Plain converts a tree produced by DecodeOrderedFromSource into plain
// map[string]any values.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		m := make(map[string]any, len(t.Keys))
		for _, k := range t.Keys {
			m[k] = Plain(t.Values[k])
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}
