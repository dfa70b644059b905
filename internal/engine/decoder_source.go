package engine

import (
	"encoding/json"
	"io"
	"strconv"
)

// TokenReader is the token-level API shared by encoding/json and
// API-compatible decoders such as goccy/go-json.
type TokenReader interface {
	Token() (json.Token, error)
}

// NewDecoderSource adapts a TokenReader into a TokenSource, telling object
// keys apart from string values. offset may be nil when the decoder cannot
// report input positions.
func NewDecoderSource(r TokenReader, offset func() int64) TokenSource {
	return &decoderSource{r: r, offset: offset, last: -1}
}

type container struct {
	array     bool
	expectKey bool
}

type decoderSource struct {
	r      TokenReader
	offset func() int64
	stack  []container
	last   int64
}

func (s *decoderSource) NextToken() (Token, error) {
	tok, err := s.r.Token()
	if err != nil {
		if err == io.EOF {
			return Token{}, io.EOF
		}
		return Token{}, err
	}
	if s.offset != nil {
		s.last = s.offset()
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.stack = append(s.stack, container{expectKey: true})
			return Token{Kind: KindBeginObject, Offset: s.last}, nil
		case '[':
			s.stack = append(s.stack, container{array: true})
			return Token{Kind: KindBeginArray, Offset: s.last}, nil
		case '}':
			s.close()
			return Token{Kind: KindEndObject, Offset: s.last}, nil
		default:
			s.close()
			return Token{Kind: KindEndArray, Offset: s.last}, nil
		}
	case string:
		if n := len(s.stack); n > 0 && !s.stack[n-1].array && s.stack[n-1].expectKey {
			s.stack[n-1].expectKey = false
			return Token{Kind: KindKey, String: v, Offset: s.last}, nil
		}
		s.valueDone()
		return Token{Kind: KindString, String: v, Offset: s.last}, nil
	case bool:
		s.valueDone()
		return Token{Kind: KindBool, Bool: v, Offset: s.last}, nil
	case json.Number:
		s.valueDone()
		return Token{Kind: KindNumber, Number: string(v), Offset: s.last}, nil
	case float64:
		s.valueDone()
		return Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.last}, nil
	}
	s.valueDone()
	return Token{Kind: KindNull, Offset: s.last}, nil
}

// close pops a container; the container itself was the value of its parent.
func (s *decoderSource) close() {
	if n := len(s.stack); n > 0 {
		s.stack = s.stack[:n-1]
	}
	s.valueDone()
}

// valueDone marks that an object member value has been consumed.
func (s *decoderSource) valueDone() {
	if n := len(s.stack); n > 0 && !s.stack[n-1].array {
		s.stack[n-1].expectKey = true
	}
}

func (s *decoderSource) Location() int64 { return s.last }
