// Package json provides the encoding/json backed token source.
package json

import (
	"bytes"
	"encoding/json"
	"io"

	eng "github.com/reoring/jsonguard/internal/engine"
)

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return eng.NewDecoderSource(dec, dec.InputOffset)
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }
