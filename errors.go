package jsonguard

import (
	"errors"
	"fmt"
	"strings"

	eng "github.com/reoring/jsonguard/internal/engine"
	"github.com/reoring/jsonguard/internal/schemaerr"
	"github.com/reoring/jsonguard/internal/validator"
)

// Violation codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType         = validator.CodeInvalidType
	CodeRequired            = validator.CodeRequired
	CodeUnknownKey          = validator.CodeUnknownKey
	CodeTooSmall            = validator.CodeTooSmall
	CodeTooBig              = validator.CodeTooBig
	CodeTooShort            = validator.CodeTooShort
	CodeTooLong             = validator.CodeTooLong
	CodePattern             = validator.CodePattern
	CodeInvalidEnum         = validator.CodeInvalidEnum
	CodeInvalidConst        = validator.CodeInvalidConst
	CodeInvalidFormat       = validator.CodeInvalidFormat
	CodeNotMultipleOf       = validator.CodeNotMultipleOf
	CodeNotUnique           = validator.CodeNotUnique
	CodeContainsTooFew      = validator.CodeContainsTooFew
	CodeContainsTooMany     = validator.CodeContainsTooMany
	CodeAnyOfNone           = validator.CodeAnyOfNone
	CodeOneOfNone           = validator.CodeOneOfNone
	CodeOneOfMultiple       = validator.CodeOneOfMultiple
	CodeNotAllowed          = validator.CodeNotAllowed
	CodeFalseSchema         = validator.CodeFalseSchema
	CodeDependency          = validator.CodeDependency
	CodeInvalidPropertyName = validator.CodeInvalidPropertyName
	// Decoding of instance documents
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeTruncated    = "truncated"
)

// Violation is one failed constraint. InstancePath is a JSON Pointer into the
// validated value (root "/"); SchemaPath is the evaluation path through
// keywords and $refs; SchemaLocation is the absolute URI of the keyword.
type Violation = validator.Violation

// Violations is the error form of a failed verdict or a failed decode.
type Violations []Violation

// Error summarizes the first few violations.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(vs)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		// e.g. required at /items/2
		fmt.Fprintf(b, "%s at %s", vs[i].Code, vs[i].InstancePath)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsViolations extracts Violations from an error using errors.As internally.
func AsViolations(err error) (Violations, bool) {
	if err == nil {
		return nil, false
	}
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}

// SchemaLoadError reports a schema document that could not be read or parsed.
type SchemaLoadError = schemaerr.LoadError

// SchemaError reports a schema that is not well formed, a reference that
// cannot be resolved or an unsupported dialect.
type SchemaError = schemaerr.Error

var (
	// ErrUnsupportedDialect is wrapped by SchemaError when $schema names an unknown dialect.
	ErrUnsupportedDialect = schemaerr.ErrUnsupportedDialect
	// ErrUnresolvableRef is wrapped by SchemaError when a reference cannot be resolved.
	ErrUnresolvableRef = schemaerr.ErrUnresolvableRef
)

// toViolations maps decoding failures onto the violation model.
func toViolations(err error) Violations {
	if err == nil {
		return nil
	}
	if vs, ok := AsViolations(err); ok {
		return vs
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Violations{{InstancePath: ie.Path, Code: ie.Code, Message: ie.Message}}
	}
	return single(CodeParseError, err.Error())
}

func single(code, msg string) Violations {
	return Violations{{InstancePath: "/", Code: code, Message: msg}}
}
