// Package gojson provides a JSON driver backed by github.com/goccy/go-json.
package gojson

import (
	"bytes"
	"encoding/json"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/jsonguard"
	eng "github.com/reoring/jsonguard/internal/engine"
)

// Driver returns a jsonguard.JSONDriver backed by goccy/go-json.
func Driver() jsonguard.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) jsonguard.Source {
	return jsonguard.SourceFromEngine(NewReader(r), jsonguard.NumberJSONNumber)
}
func (driverGoJSON) NewBytes(b []byte) jsonguard.Source {
	return jsonguard.SourceFromEngine(NewBytes(b), jsonguard.NumberJSONNumber)
}
func (driverGoJSON) Name() string { return "go-json" }

type tokenReader struct{ dec *j.Decoder }

func (t tokenReader) Token() (json.Token, error) { return t.dec.Token() }

// NewReader wraps an io.Reader into an engine.TokenSource using go-json.
// go-json does not expose input offsets, so Location reports -1.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return eng.NewDecoderSource(tokenReader{dec: dec}, nil)
}

// NewBytes wraps a byte slice into an engine.TokenSource using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }
