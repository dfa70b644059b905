// Package schemaerr defines the loader error taxonomy shared by the compiler,
// the dialect profiles and the public API.
package schemaerr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDialect is wrapped by Error when $schema names an unknown dialect.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
	// ErrUnresolvableRef is wrapped by Error when a reference cannot be resolved.
	ErrUnresolvableRef = errors.New("unresolvable reference")
)

// LoadError reports a schema document that could not be read or parsed.
type LoadError struct {
	Location string
	Cause    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load schema %s: %v", e.Location, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Error reports a schema that parsed but is not a usable schema: a keyword
// with a malformed value, an unresolvable reference or an unsupported dialect.
type Error struct {
	// Location is the absolute URI of the offending schema node.
	Location string
	// Keyword is the offending keyword, if any.
	Keyword string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	loc := e.Location
	if e.Keyword != "" {
		loc += "/" + e.Keyword
	}
	if e.Cause != nil && e.Message == "" {
		return fmt.Sprintf("invalid schema at %s: %v", loc, e.Cause)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid schema at %s: %s: %v", loc, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid schema at %s: %s", loc, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Keywordf builds an Error for a malformed keyword value.
func Keywordf(location, keyword, format string, args ...any) *Error {
	return &Error{Location: location, Keyword: keyword, Message: fmt.Sprintf(format, args...)}
}
