package ginmw_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/middleware"
	ginmw "github.com/reoring/jsonguard/middleware/gin"
)

func TestValidateJSON_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := jsonguard.LoadBytes(context.Background(), []byte(`{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r := gin.New()
	r.POST("/users", ginmw.ValidateJSON(s, middleware.DefaultOptions()), func(c *gin.Context) {
		vd, ok := ginmw.GetVerdict(c)
		v, hasValue := ginmw.GetValue(c)
		if !ok || !vd.Valid || !hasValue {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, v.(map[string]any)["name"].(string))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"ann"}`)))
	if rec.Code != http.StatusOK || rec.Body.String() != "ann" {
		t.Fatalf("accepted body: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":1}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var p middleware.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("problem payload: %v", err)
	}
	if len(p.Violations) != 1 || p.Violations[0].InstancePath != "/name" || p.Violations[0].Code != jsonguard.CodeInvalidType {
		t.Fatalf("unexpected violations: %+v", p.Violations)
	}
}
