package jsonguard_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	jsonguard "github.com/reoring/jsonguard"
)

const idSchema = `{"type":"object","required":["id"],"properties":{"id":{"type":"integer"}}}`

func mustLoad(t *testing.T, schema string, opts ...jsonguard.LoadOption) *jsonguard.Schema {
	t.Helper()
	s, err := jsonguard.LoadBytes(context.Background(), []byte(schema), "", opts...)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func mustDecode(t *testing.T, js string) any {
	t.Helper()
	v, err := jsonguard.Decode(jsonguard.JSONBytes([]byte(js)))
	if err != nil {
		t.Fatalf("decode %s: %v", js, err)
	}
	return v
}

func TestValidate_RequiredIntegerValid(t *testing.T) {
	s := mustLoad(t, idSchema)
	for _, mode := range []jsonguard.Mode{jsonguard.Full, jsonguard.Fast} {
		vd := s.Validate(mustDecode(t, `{"id": 5}`), mode)
		if !vd.Valid || len(vd.Violations) != 0 {
			t.Fatalf("%v: expected valid, got %v", mode, vd.Violations)
		}
		if vd.Err() != nil {
			t.Fatalf("%v: expected nil Err, got %v", mode, vd.Err())
		}
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	s := mustLoad(t, idSchema)
	vd := s.Validate(mustDecode(t, `{"name":"x"}`), jsonguard.Full)
	if vd.Valid {
		t.Fatalf("expected invalid")
	}
	found := false
	for _, v := range vd.Violations {
		if v.Code == jsonguard.CodeRequired && v.Params["property"] == "id" {
			found = true
			if v.InstancePath != "/" {
				t.Fatalf("expected instance path /, got %s", v.InstancePath)
			}
			if v.SchemaPath != "/required" {
				t.Fatalf("expected schema path /required, got %s", v.SchemaPath)
			}
		}
	}
	if !found {
		t.Fatalf("expected required violation for id, got %v", vd.Violations)
	}
	var vs jsonguard.Violations
	if !errors.As(vd.Err(), &vs) || len(vs) != len(vd.Violations) {
		t.Fatalf("expected Err to carry the violations, got %v", vd.Err())
	}
}

func TestValidate_OneOfSingleMatch(t *testing.T) {
	s := mustLoad(t, `{"oneOf":[{"type":"integer"},{"type":"string"}]}`)
	if vd := s.Validate("5", jsonguard.Full); !vd.Valid {
		t.Fatalf("expected valid, got %v", vd.Violations)
	}
	if !s.Is("5") {
		t.Fatalf("expected Is to accept the string")
	}
	if s.Is(true) {
		t.Fatalf("expected Is to reject a boolean")
	}
}

func TestLoad_CrossDocumentRef(t *testing.T) {
	dir := t.TempDir()
	a := `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"object","properties":{"item":{"$ref":"defs/b.json"}}}`
	b := `{"type":"object","required":["n"],"properties":{"n":{"type":"number","minimum":0}}}`
	if err := os.MkdirAll(filepath.Join(dir, "defs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte(a), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "defs", "b.json"), []byte(b), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := jsonguard.LoadFile(filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Documents() != 2 {
		t.Fatalf("expected 2 documents, got %d", s.Documents())
	}
	if s.DialectName() != "2020-12" {
		t.Fatalf("expected 2020-12, got %s", s.DialectName())
	}
	if !strings.HasPrefix(s.Location(), "file://") || !strings.HasSuffix(s.Location(), "/a.json") {
		t.Fatalf("unexpected location %s", s.Location())
	}
	if vd := s.Validate(mustDecode(t, `{"item":{"n":1}}`), jsonguard.Full); !vd.Valid {
		t.Fatalf("expected valid, got %v", vd.Violations)
	}
	vd := s.Validate(mustDecode(t, `{"item":{"n":-1}}`), jsonguard.Full)
	if vd.Valid || len(vd.Violations) != 1 {
		t.Fatalf("expected one violation, got %v", vd.Violations)
	}
	v := vd.Violations[0]
	if v.Code != jsonguard.CodeTooSmall || v.InstancePath != "/item/n" {
		t.Fatalf("unexpected violation %+v", v)
	}
	if !strings.HasSuffix(v.SchemaLocation, "/defs/b.json#/properties/n/minimum") {
		t.Fatalf("unexpected schema location %s", v.SchemaLocation)
	}
}

func TestLoad_WindowsStylePaths(t *testing.T) {
	docs := map[string][]byte{
		`C:\schemas\root.json`:     []byte(`{"$ref":"sub/leaf.json"}`),
		`C:\schemas\sub\leaf.json`: []byte(`{"type":"string"}`),
		`D:\unrelated\other.json`:  []byte(`{}`),
	}
	s, err := jsonguard.Load(context.Background(), `C:\schemas\root.json`, jsonguard.WithReader(jsonguard.MapReader(docs)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Location() != "file:///C:/schemas/root.json" {
		t.Fatalf("unexpected location %s", s.Location())
	}
	if !s.Is("x") || s.Is(1) {
		t.Fatalf("leaf schema not applied")
	}
}

func TestLoad_YAMLDocument(t *testing.T) {
	docs := map[string][]byte{
		"mem://x/root.yaml": []byte("type: object\nproperties:\n  port:\n    type: integer\n    maximum: 65535\n"),
	}
	s, err := jsonguard.Load(context.Background(), "mem://x/root.yaml", jsonguard.WithReader(jsonguard.MapReader(docs)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.Is(mustDecode(t, `{"port":8080}`)) {
		t.Fatalf("expected valid port")
	}
	if s.Is(mustDecode(t, `{"port":70000}`)) {
		t.Fatalf("expected port above maximum to fail")
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		schema  string
		load    bool // SchemaLoadError when true, SchemaError otherwise
		keyword string
		is      error
	}{
		{name: "malformed", schema: `{"type":`, load: true},
		{name: "duplicate key", schema: `{"type":"string","type":"number"}`, load: true},
		{name: "unknown dialect", schema: `{"$schema":"http://example.com/nope"}`, keyword: "$schema", is: jsonguard.ErrUnsupportedDialect},
		{name: "non-string dialect", schema: `{"$schema":4}`, keyword: "$schema"},
		{name: "negative minLength", schema: `{"minLength":-1}`, keyword: "minLength"},
		{name: "bad pattern", schema: `{"pattern":"("}`, keyword: "pattern"},
		{name: "dangling ref", schema: `{"$ref":"#/$defs/missing"}`, is: jsonguard.ErrUnresolvableRef},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := jsonguard.LoadBytes(ctx, []byte(tc.schema), "mem://t/s.json")
			if err == nil {
				t.Fatalf("expected error")
			}
			var le *jsonguard.SchemaLoadError
			var se *jsonguard.SchemaError
			if tc.load {
				if !errors.As(err, &le) {
					t.Fatalf("expected SchemaLoadError, got %T: %v", err, err)
				}
				return
			}
			if !errors.As(err, &se) {
				t.Fatalf("expected SchemaError, got %T: %v", err, err)
			}
			if tc.keyword != "" && se.Keyword != tc.keyword {
				t.Fatalf("expected keyword %s, got %s (%v)", tc.keyword, se.Keyword, err)
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected errors.Is(%v), got %v", tc.is, err)
			}
		})
	}
}

func TestLoad_DefaultDialectOption(t *testing.T) {
	// draft-04 reads exclusiveMaximum as a boolean modifier of maximum
	schema := `{"maximum":10,"exclusiveMaximum":true}`
	s := mustLoad(t, schema, jsonguard.WithDefaultDialect("draft-04"))
	if s.DialectName() != "draft-04" {
		t.Fatalf("expected draft-04, got %s", s.DialectName())
	}
	if s.Is(10) || !s.Is(9.5) {
		t.Fatalf("exclusive maximum not applied")
	}
	if _, err := jsonguard.LoadBytes(context.Background(), []byte(`{}`), "", jsonguard.WithDefaultDialect("draft-99")); !errors.Is(err, jsonguard.ErrUnsupportedDialect) {
		t.Fatalf("expected unsupported dialect, got %v", err)
	}
}

func TestLoad_FormatAssertion(t *testing.T) {
	schema := `{"format":"uuid"}`
	if s := mustLoad(t, schema); !s.Is("nope") {
		t.Fatalf("format should be an annotation by default")
	}
	s := mustLoad(t, schema, jsonguard.WithFormatAssertion(true))
	if s.Is("nope") || !s.Is("0b5b3c6a-1c7e-4d0f-9b55-5a2a8e7c0f11") {
		t.Fatalf("format assertion not applied")
	}
}

func TestLoad_LoggerReceivesFetches(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	docs := map[string][]byte{
		"mem://x/a.json": []byte(`{"$ref":"b.json"}`),
		"mem://x/b.json": []byte(`true`),
	}
	if _, err := jsonguard.Load(context.Background(), "mem://x/a.json",
		jsonguard.WithReader(jsonguard.MapReader(docs)), jsonguard.WithLogger(logger)); err != nil {
		t.Fatalf("load: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "mem://x/b.json") || !strings.Contains(out, "schema compiled") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reader := jsonguard.ReaderFunc(func(ctx context.Context, loc string) ([]byte, error) {
		return []byte(`{}`), nil
	})
	_, err := jsonguard.Load(ctx, "mem://x/a.json", jsonguard.WithReader(reader))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestValidate_SelfReferenceTerminates(t *testing.T) {
	s := mustLoad(t, `{"type":"object","properties":{"child":{"$ref":"#"}},"additionalProperties":false}`)
	v := mustDecode(t, `{"child":{"child":{"child":{}}}}`)
	if !s.Is(v) {
		t.Fatalf("expected nested value to be valid")
	}
	vd := s.Validate(mustDecode(t, `{"child":{"child":{"x":1}}}`), jsonguard.Full)
	if vd.Valid || vd.Violations[0].InstancePath != "/child/child/x" {
		t.Fatalf("unexpected verdict %+v", vd)
	}
	// a reference that loops without consuming input is tolerated
	loop := mustLoad(t, `{"$defs":{"a":{"$ref":"#/$defs/b"},"b":{"$ref":"#/$defs/a"}},"$ref":"#/$defs/a"}`)
	if !loop.Is(1) {
		t.Fatalf("expected cyclic refs to accept")
	}
}

func TestValidate_FullAndFastAgree(t *testing.T) {
	s := mustLoad(t, `{
		"type":"object",
		"properties":{
			"tags":{"type":"array","items":{"type":"string","minLength":2},"uniqueItems":true},
			"kind":{"enum":["a","b"]},
			"size":{"type":"number","multipleOf":0.1}
		},
		"additionalProperties":false
	}`)
	inputs := []string{
		`{}`,
		`{"tags":["aa","bb"],"kind":"a","size":0.3}`,
		`{"tags":["a","aa","aa"]}`,
		`{"kind":"c","extra":true,"size":0.35}`,
		`[]`,
	}
	for _, in := range inputs {
		v := mustDecode(t, in)
		full := s.Validate(v, jsonguard.Full)
		fast := s.Validate(v, jsonguard.Fast)
		if full.Valid != fast.Valid {
			t.Fatalf("%s: full=%v fast=%v", in, full.Valid, fast.Valid)
		}
		if len(fast.Violations) > 1 {
			t.Fatalf("%s: fast produced %d violations", in, len(fast.Violations))
		}
		if !full.Valid && len(full.Violations) == 0 {
			t.Fatalf("%s: invalid verdict without violations", in)
		}
		again := s.Validate(v, jsonguard.Full)
		if len(again.Violations) != len(full.Violations) {
			t.Fatalf("%s: validation is not repeatable", in)
		}
		for i := range again.Violations {
			if again.Violations[i].InstancePath != full.Violations[i].InstancePath || again.Violations[i].Code != full.Violations[i].Code {
				t.Fatalf("%s: violation %d differs between runs", in, i)
			}
		}
	}
}

func TestValidate_Concurrent(t *testing.T) {
	s := mustLoad(t, `{"type":"array","items":{"$ref":"#/$defs/p"},"$defs":{"p":{"type":"object","required":["x"]}}}`)
	good := mustDecode(t, `[{"x":1},{"x":2}]`)
	bad := mustDecode(t, `[{"x":1},{}]`)
	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if !s.Validate(good, jsonguard.Full).Valid {
				errs <- "good rejected"
			}
			vd := s.Validate(bad, jsonguard.Mode(i%2))
			if vd.Valid || vd.Violations[0].InstancePath != "/1" {
				errs <- "bad accepted or wrong path"
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestValidate_NativeGoValues(t *testing.T) {
	s := mustLoad(t, `{"type":"object","properties":{"n":{"type":"integer","maximum":3}}}`)
	if !s.Is(map[string]any{"n": 3}) {
		t.Fatalf("expected int to be accepted")
	}
	if s.Is(map[string]any{"n": 3.5}) {
		t.Fatalf("expected 3.5 to be rejected as non-integer")
	}
	if s.Is(map[string]any{"n": uint8(4)}) {
		t.Fatalf("expected 4 to exceed maximum")
	}
}

func TestValidateJSON_DecodeFailures(t *testing.T) {
	s := mustLoad(t, idSchema)
	_, err := s.ValidateJSON([]byte(`{"id":`), jsonguard.Full)
	vs, ok := jsonguard.AsViolations(err)
	if !ok || vs[0].Code != jsonguard.CodeParseError {
		t.Fatalf("expected parse_error, got %v", err)
	}
	vd, err := s.ValidateJSON([]byte(`{"id":"7"}`), jsonguard.Fast)
	if err != nil || vd.Valid || vd.Violations[0].Code != jsonguard.CodeInvalidType {
		t.Fatalf("unexpected result %+v %v", vd, err)
	}
	vd, err = s.ValidateReader(strings.NewReader(`{"id":7}`), jsonguard.Full)
	if err != nil || !vd.Valid {
		t.Fatalf("unexpected result %+v %v", vd, err)
	}
}

func TestViolations_ErrorSummary(t *testing.T) {
	vs := jsonguard.Violations{
		{Code: "required", InstancePath: "/"},
		{Code: "invalid_type", InstancePath: "/a"},
		{Code: "too_big", InstancePath: "/b"},
		{Code: "pattern", InstancePath: "/c"},
	}
	want := "required at /; invalid_type at /a; too_big at /b; ... (total 4)"
	if got := vs.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if got := vs[:1].Error(); got != "required at /" {
		t.Fatalf("unexpected single summary %q", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]jsonguard.Mode{"": jsonguard.Full, "full": jsonguard.Full, "FAST": jsonguard.Fast} {
		got, err := jsonguard.ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := jsonguard.ParseMode("slow"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestLoadBytes_AnonymousLocationsAreUnique(t *testing.T) {
	a := mustLoad(t, `{"type":"string"}`)
	b := mustLoad(t, `{"type":"string"}`)
	if !strings.HasPrefix(a.Location(), "mem://") || !strings.HasSuffix(a.Location(), "/schema.json") {
		t.Fatalf("unexpected anonymous location %q", a.Location())
	}
	if a.Location() == b.Location() {
		t.Fatalf("anonymous schemas share a base: %q", a.Location())
	}
}

func TestValidate_ExtremeExponents(t *testing.T) {
	number := mustLoad(t, `{"type":"number"}`)
	integer := mustLoad(t, `{"type":"integer"}`)
	for _, tc := range []struct {
		in        string
		isInteger bool
	}{
		{`1e50000000`, true},
		{`-1e-50000000`, false},
		{`1e500000`, true},
	} {
		vd, err := number.ValidateJSON([]byte(tc.in), jsonguard.Full)
		if err != nil || !vd.Valid {
			t.Fatalf("%s against number: err=%v violations=%v", tc.in, err, vd.Violations)
		}
		vd, err = integer.ValidateJSON([]byte(tc.in), jsonguard.Full)
		if err != nil || vd.Valid != tc.isInteger {
			t.Fatalf("%s against integer: err=%v valid=%v", tc.in, err, vd.Valid)
		}
	}

	// keyword values with such exponents compile and compare exactly
	s := mustLoad(t, `{"maximum":1e50000000,"exclusiveMinimum":-1e-50000000}`)
	for in, want := range map[string]bool{`1e50000000`: true, `2e50000000`: false, `0`: true, `-1e-49999999`: false} {
		if got := s.Is(mustDecode(t, in)); got != want {
			t.Fatalf("%s: got %v, want %v", in, got, want)
		}
	}
}
