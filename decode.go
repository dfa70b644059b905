package jsonguard

import (
	"io"

	eng "github.com/reoring/jsonguard/internal/engine"
)

// Decode consumes one JSON value from src and returns it as a generic tree
// (map[string]any, []any, string, bool, nil and json.Number or float64
// depending on the Source's NumberMode). Duplicate keys, nesting depth and
// size are enforced according to opt. Failures are returned as Violations.
func Decode(src Source, opts ...DecodeOpt) (any, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	v, err := decodeAnyFromSource(src, opt)
	if err != nil {
		return nil, toViolations(err)
	}
	return v, nil
}

// DecodeReader decodes one JSON value from r. When MaxBytes is set it
// enforces the size cap up front, otherwise it streams through the driver.
func DecodeReader(r io.Reader, opts ...DecodeOpt) (any, error) {
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 {
		limit := opts[len(opts)-1].MaxBytes
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return nil, single(CodeParseError, err.Error())
		}
		if int64(len(data)) > limit {
			return nil, single(CodeTruncated, "max bytes exceeded")
		}
		return Decode(JSONBytes(data), opts...)
	}
	return Decode(JSONReader(r), opts...)
}

func decodeAnyFromSource(src Source, opt DecodeOpt) (any, error) {
	var sink func(eng.SimpleIssue)
	if opt.OnWarning != nil {
		sink = func(si eng.SimpleIssue) {
			opt.OnWarning(Violation{InstancePath: si.Path, Code: si.Code, Message: si.Message})
		}
	}
	enforced := eng.WrapWithEnforcement(EngineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		IssueSink:   sink,
	})
	switch src.NumberMode() {
	case NumberFloat64:
		return eng.DecodeAnyFromSourceAsFloat64(enforced)
	default:
		return eng.DecodeAnyFromSource(enforced)
	}
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

// parseSchemaJSON decodes a schema document through the active JSON driver
// into an ordered tree. Duplicate keys are always fatal in schemas.
func parseSchemaJSON(data []byte) (any, error) {
	src := eng.WrapWithEnforcement(EngineTokenSource(JSONBytes(data)), eng.EnforceOptions{OnDuplicate: eng.DupError})
	return eng.DecodeOrderedFromSource(src)
}
