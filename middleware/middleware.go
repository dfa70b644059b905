// Package middleware validates JSON request bodies at HTTP boundaries.
package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/report"
)

// DefaultMaxBytes caps request bodies when Options.Decode.MaxBytes is zero.
const DefaultMaxBytes = 1 << 20

type ctxKeyVerdict struct{}

type ctxKeyValue struct{}

// ContextWithVerdict attaches a Verdict to the context.
func ContextWithVerdict(ctx context.Context, v jsonguard.Verdict) context.Context {
	return context.WithValue(ctx, ctxKeyVerdict{}, v)
}

// VerdictFromContext retrieves the Verdict stored by the middleware.
func VerdictFromContext(ctx context.Context) (jsonguard.Verdict, bool) {
	v, ok := ctx.Value(ctxKeyVerdict{}).(jsonguard.Verdict)
	return v, ok
}

// decoded boxes the request body so that a JSON null is still present.
type decoded struct{ v any }

// ContextWithValue attaches the decoded request body to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, decoded{v})
}

// ValueFromContext retrieves the decoded request body. A body of JSON null
// reports (nil, true).
func ValueFromContext(ctx context.Context) (any, bool) {
	d, ok := ctx.Value(ctxKeyValue{}).(decoded)
	return d.v, ok
}

// Options configures request validation.
type Options struct {
	Mode   jsonguard.Mode
	Decode jsonguard.DecodeOpt
}

// DefaultOptions returns a recommended default for HTTP JSON boundaries.
// - Duplicate keys are errors
// - Bodies are capped at DefaultMaxBytes
// - Every violation is reported
func DefaultOptions() Options {
	return Options{
		Mode: jsonguard.Full,
		Decode: jsonguard.DecodeOpt{
			Strictness: jsonguard.Strictness{OnDuplicateKey: jsonguard.Error},
			MaxBytes:   DefaultMaxBytes,
		},
	}
}

// Problem is the JSON error payload, shaped after RFC 9457.
type Problem struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Violations []report.Entry `json:"violations,omitempty"`
}

// Result is the outcome of checking one request body. Status is zero when the
// body is valid; otherwise Problem describes the rejection.
type Result struct {
	Status  int
	Value   any
	Verdict jsonguard.Verdict
	Problem *Problem
}

// Evaluate reads, decodes and validates the body of r. The body is replaced
// with an in-memory copy so downstream handlers can read it again.
func Evaluate(r *http.Request, s *jsonguard.Schema, opt Options) Result {
	limit := opt.Decode.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	var body io.Reader = http.NoBody
	if r.Body != nil {
		body = r.Body
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return reject(http.StatusBadRequest, err.Error(), nil)
	}
	if int64(len(data)) > limit {
		return reject(http.StatusRequestEntityTooLarge, "request body exceeds the size limit", nil)
	}
	r.Body = io.NopCloser(bytes.NewReader(data))

	dopt := opt.Decode
	dopt.MaxBytes = 0
	v, err := jsonguard.Decode(jsonguard.JSONBytes(data), dopt)
	if err != nil {
		vs, _ := jsonguard.AsViolations(err)
		return reject(http.StatusBadRequest, "request body is not acceptable JSON", vs)
	}
	vd := s.Validate(v, opt.Mode)
	if !vd.Valid {
		res := reject(http.StatusUnprocessableEntity, report.Summary(vd), vd.Violations)
		res.Value, res.Verdict = v, vd
		return res
	}
	return Result{Value: v, Verdict: vd}
}

func reject(status int, detail string, vs jsonguard.Violations) Result {
	p := &Problem{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	if len(vs) > 0 {
		p.Violations = report.Entries(vs)
	}
	return Result{Status: status, Problem: p}
}

// WriteProblem writes p as application/problem+json.
func WriteProblem(w http.ResponseWriter, p *Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Validate returns net/http middleware that rejects request bodies not valid
// against s: 413 when the size cap is hit, 400 for malformed JSON and 422 with
// the violations otherwise. Accepted requests carry the Verdict and the
// decoded body in their context.
func Validate(s *jsonguard.Schema, opt Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := Evaluate(r, s, opt)
			if res.Status != 0 {
				WriteProblem(w, res.Problem)
				return
			}
			ctx := ContextWithValue(ContextWithVerdict(r.Context(), res.Verdict), res.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
