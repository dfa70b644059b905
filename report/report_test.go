package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/report"
)

func verdict(t *testing.T, schema, inst string) jsonguard.Verdict {
	t.Helper()
	s, err := jsonguard.LoadBytes(context.Background(), []byte(schema), "mem://report/s.json")
	require.NoError(t, err)
	vd, err := s.ValidateJSON([]byte(inst), jsonguard.Full)
	require.NoError(t, err)
	return vd
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "valid", report.Summary(jsonguard.Verdict{Valid: true}))
	assert.Equal(t, "invalid: 1 violation", report.Summary(jsonguard.Verdict{Violations: make(jsonguard.Violations, 1)}))
	assert.Equal(t, "invalid: 3 violations", report.Summary(jsonguard.Verdict{Violations: make(jsonguard.Violations, 3)}))
}

func TestText(t *testing.T) {
	vd := verdict(t, `{"required":["id"],"properties":{"n":{"type":"string"}}}`, `{"n":1}`)
	var buf bytes.Buffer
	require.NoError(t, report.Text(&buf, vd))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "invalid: 2 violations", lines[0])
	assert.Contains(t, buf.String(), "  /n: ")
	assert.Contains(t, buf.String(), "(invalid_type) [/properties/n/type]")
	assert.Contains(t, buf.String(), "(required) [/required]")
}

func TestJSON(t *testing.T) {
	vd := verdict(t, `{"type":"object","additionalProperties":false}`, `{"b":1,"a":2}`)
	var buf bytes.Buffer
	require.NoError(t, report.JSON(&buf, vd))

	var doc struct {
		Valid      bool `json:"valid"`
		Violations []struct {
			InstancePath   string `json:"instancePath"`
			SchemaPath     string `json:"schemaPath"`
			SchemaLocation string `json:"schemaLocation"`
			Code           string `json:"code"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.False(t, doc.Valid)
	require.Len(t, doc.Violations, 2)
	assert.Equal(t, "/a", doc.Violations[0].InstancePath)
	assert.Equal(t, "/b", doc.Violations[1].InstancePath)
	assert.Equal(t, "unknown_key", doc.Violations[0].Code)
	assert.Equal(t, "mem://report/s.json#/additionalProperties", doc.Violations[0].SchemaLocation)

	buf.Reset()
	require.NoError(t, report.JSON(&buf, jsonguard.Verdict{Valid: true}))
	assert.JSONEq(t, `{"valid":true,"violations":[]}`, buf.String())
}

func TestWriteDocumentSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteDocument(&buf, report.NewDocument("a.json", jsonguard.Verdict{Valid: true})))
	assert.JSONEq(t, `{"source":"a.json","valid":true,"violations":[]}`, buf.String())
}
