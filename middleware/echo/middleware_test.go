package echomw_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/middleware"
	echomw "github.com/reoring/jsonguard/middleware/echo"
)

func TestValidateJSON_RoundTrip(t *testing.T) {
	s, err := jsonguard.LoadBytes(context.Background(), []byte(`{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := echo.New()
	e.POST("/users", func(c echo.Context) error {
		vd, ok := echomw.GetVerdict(c)
		v, hasValue := echomw.GetValue(c)
		if !ok || !vd.Valid || !hasValue {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, v.(map[string]any)["name"].(string))
	}, echomw.ValidateJSON(s, middleware.DefaultOptions()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"ann"}`))
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ann" {
		t.Fatalf("accepted body: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var p middleware.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("problem payload: %v", err)
	}
	if len(p.Violations) == 0 || p.Violations[0].Code != jsonguard.CodeParseError {
		t.Fatalf("unexpected violations: %+v", p.Violations)
	}
}
