package jsonguard_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/source/gojson"
)

func TestDecodeReader_DuplicateKey_Error(t *testing.T) {
	opt := jsonguard.DecodeOpt{Strictness: jsonguard.Strictness{OnDuplicateKey: jsonguard.Error}}
	_, err := jsonguard.DecodeReader(bytes.NewReader([]byte(`{"a":1,"a":2}`)), opt)
	if err == nil {
		t.Fatalf("expected error for duplicate key")
	}
	vs, ok := jsonguard.AsViolations(err)
	if !ok || len(vs) == 0 {
		t.Fatalf("expected Violations error, got: %v", err)
	}
	if vs[0].Code != jsonguard.CodeDuplicateKey || vs[0].InstancePath != "/a" {
		t.Fatalf("expected duplicate_key at /a, got: %v", vs)
	}
}

func TestDecodeReader_DuplicateKey_NestedPath(t *testing.T) {
	opt := jsonguard.DecodeOpt{Strictness: jsonguard.Strictness{OnDuplicateKey: jsonguard.Error}}
	_, err := jsonguard.DecodeReader(bytes.NewReader([]byte(`[{"a":1,"a":2}]`)), opt)
	vs, ok := jsonguard.AsViolations(err)
	if !ok || len(vs) == 0 {
		t.Fatalf("expected Violations, got: %v", err)
	}
	if vs[0].InstancePath != "/0/a" {
		t.Fatalf("expected path=/0/a, got: %s", vs[0].InstancePath)
	}
}

func TestDecode_DuplicateKey_WarnAndIgnore(t *testing.T) {
	var warned []jsonguard.Violation
	opt := jsonguard.DecodeOpt{
		Strictness: jsonguard.Strictness{OnDuplicateKey: jsonguard.Warn},
		OnWarning:  func(v jsonguard.Violation) { warned = append(warned, v) },
	}
	v, err := jsonguard.Decode(jsonguard.JSONBytes([]byte(`{"a":1,"a":2}`)), opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warned) != 1 || warned[0].Code != jsonguard.CodeDuplicateKey {
		t.Fatalf("expected one duplicate_key warning, got %v", warned)
	}
	if v.(map[string]any)["a"] != json.Number("2") {
		t.Fatalf("expected last value to win, got %v", v)
	}

	if _, err := jsonguard.Decode(jsonguard.JSONBytes([]byte(`{"a":1,"a":2}`))); err != nil {
		t.Fatalf("duplicates are ignored by default: %v", err)
	}
}

func TestDecodeReader_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	_, err := jsonguard.DecodeReader(strings.NewReader(`{"a":{"b":{"c":1}}}`), jsonguard.DecodeOpt{MaxDepth: 2})
	vs, ok := jsonguard.AsViolations(err)
	if !ok || len(vs) == 0 || vs[0].InstancePath != "/a/b" {
		t.Fatalf("expected path=/a/b for max depth, got: %v", err)
	}
}

func TestDecodeReader_MaxBytes_Exceeded(t *testing.T) {
	data := append([]byte("{}"), bytes.Repeat([]byte("x"), 1024)...)
	_, err := jsonguard.DecodeReader(bytes.NewReader(data), jsonguard.DecodeOpt{MaxBytes: 2})
	vs, ok := jsonguard.AsViolations(err)
	if !ok || len(vs) == 0 || vs[0].Code != jsonguard.CodeTruncated {
		t.Fatalf("expected truncated, got: %v", err)
	}
	if vs[0].InstancePath != "/" {
		t.Fatalf("expected root path, got: %s", vs[0].InstancePath)
	}
}

func TestDecode_NumberModes(t *testing.T) {
	v, err := jsonguard.Decode(jsonguard.JSONBytes([]byte(`[12345678901234567890, 0.1]`)))
	if err != nil {
		t.Fatal(err)
	}
	arr := v.([]any)
	if arr[0] != json.Number("12345678901234567890") {
		t.Fatalf("expected exact json.Number, got %#v", arr[0])
	}
	v, err = jsonguard.Decode(jsonguard.WithNumberMode(jsonguard.JSONBytes([]byte(`[1.5]`)), jsonguard.NumberFloat64))
	if err != nil {
		t.Fatal(err)
	}
	if v.([]any)[0] != 1.5 {
		t.Fatalf("expected float64, got %#v", v.([]any)[0])
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a" 1}`, `[1,]`, `{} []`} {
		_, err := jsonguard.Decode(jsonguard.JSONBytes([]byte(in)))
		vs, ok := jsonguard.AsViolations(err)
		if !ok || vs[0].Code != jsonguard.CodeParseError {
			t.Fatalf("%q: expected parse_error, got %v", in, err)
		}
	}
}

// countingSource wraps another Source to check that custom Sources are accepted.
type countingSource struct {
	inner jsonguard.Source
	n     int
}

func (c *countingSource) NextToken() (jsonguard.Token, error) {
	c.n++
	return c.inner.NextToken()
}
func (c *countingSource) NumberMode() jsonguard.NumberMode { return c.inner.NumberMode() }
func (c *countingSource) Location() int64                  { return c.inner.Location() }

func TestDecode_CustomSource(t *testing.T) {
	src := &countingSource{inner: jsonguard.JSONBytes([]byte(`{"a":[true,null]}`))}
	v, err := jsonguard.Decode(src)
	if err != nil {
		t.Fatal(err)
	}
	if src.n < 6 {
		t.Fatalf("expected tokens to flow through the custom source, got %d", src.n)
	}
	if arr := v.(map[string]any)["a"].([]any); arr[0] != true || arr[1] != nil {
		t.Fatalf("unexpected value %v", v)
	}
}

func TestJSONDriver_Swap(t *testing.T) {
	defer jsonguard.UseDefaultJSONDriver()
	base := jsonguard.JSONDriverName()
	jsonguard.SetJSONDriver(nil)
	if jsonguard.JSONDriverName() != base {
		t.Fatalf("nil driver must be ignored")
	}
	jsonguard.SetJSONDriver(gojson.Driver())
	if jsonguard.JSONDriverName() != "go-json" {
		t.Fatalf("driver not installed, got %s", jsonguard.JSONDriverName())
	}
	// schema documents and instances both go through the active driver
	s, err := jsonguard.LoadBytes(context.Background(), []byte(`{"type":"integer","type":"string"}`), "")
	var le *jsonguard.SchemaLoadError
	if s != nil || !errors.As(err, &le) {
		t.Fatalf("expected duplicate key rejection through go-json, got %v", err)
	}
	s = mustLoad(t, `{"type":"integer","maximum":5}`)
	if !s.Is(mustDecode(t, `3`)) || s.Is(mustDecode(t, `6`)) {
		t.Fatalf("decoding through the swapped driver failed")
	}
	jsonguard.UseDefaultJSONDriver()
	if jsonguard.JSONDriverName() != "encoding/json" {
		t.Fatalf("default driver not restored")
	}
}
