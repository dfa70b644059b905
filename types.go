package jsonguard

import (
	"fmt"
	"strings"

	"github.com/reoring/jsonguard/internal/validator"
)

// Mode selects an evaluation strategy.
type Mode = validator.Mode

const (
	// Full collects every violation in the document.
	Full = validator.Full
	// Fast stops at the first violation.
	Fast = validator.Fast
)

// ParseMode maps "full" or "fast" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "full", "":
		return Full, nil
	case "fast":
		return Fast, nil
	}
	return Full, fmt.Errorf("unknown mode %q (want full or fast)", s)
}

// NumberMode dictates how numbers are interpreted.
type NumberMode int

const (
	NumberFloat64    NumberMode = iota // Fast mode (with potential precision loss).
	NumberJSONNumber                   // Preserve json.Number.
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles instance decoding options.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	// OnWarning receives non-fatal findings such as duplicate keys in Warn mode.
	OnWarning func(Violation)
}
