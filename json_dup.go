package jsonguard

import (
	"errors"
	"io"

	eng "github.com/reoring/jsonguard/internal/engine"
)

// DetectJSONDuplicateKeysBytes reports every duplicate object key in data
// without building a value. At most maxIssues entries are returned when
// maxIssues > 0. A syntax error ends the scan and is returned as Violations.
func DetectJSONDuplicateKeysBytes(data []byte, maxIssues int) (Violations, error) {
	return detectDuplicateKeys(JSONBytes(data), maxIssues)
}

// DetectJSONDuplicateKeysReader is DetectJSONDuplicateKeysBytes for a stream.
func DetectJSONDuplicateKeysReader(r io.Reader, maxIssues int) (Violations, error) {
	return detectDuplicateKeys(JSONReader(r), maxIssues)
}

func detectDuplicateKeys(src Source, maxIssues int) (Violations, error) {
	var found Violations
	enforced := eng.WrapWithEnforcement(EngineTokenSource(src), eng.EnforceOptions{
		OnDuplicate: eng.DupWarn,
		IssueSink: func(si eng.SimpleIssue) {
			found = append(found, Violation{InstancePath: si.Path, Code: si.Code, Message: si.Message})
		},
	})
	// skim the token stream; values are never materialised
	depth := 0
	for {
		if maxIssues > 0 && len(found) >= maxIssues {
			return found[:maxIssues], nil
		}
		tok, err := enforced.NextToken()
		if errors.Is(err, io.EOF) && depth == 0 {
			return found, nil
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return found, toViolations(err)
		}
		switch tok.Kind {
		case eng.KindBeginObject, eng.KindBeginArray:
			depth++
		case eng.KindEndObject, eng.KindEndArray:
			depth--
		}
	}
}
