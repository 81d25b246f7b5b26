package config

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by configuration sources. The resolver absorbs all of
// them into fallback decisions; only Publish surfaces errors to callers.
var (
	// ErrAbsent indicates a source has no configuration to offer. This is
	// a permanent-for-now condition: the resolver falls through to the
	// next-lower-authority source rather than retrying.
	ErrAbsent = errors.New("configuration absent")

	// ErrDecode indicates malformed configuration bytes. Decode failures
	// are handled exactly like ErrAbsent.
	ErrDecode = errors.New("configuration decode failed")

	// ErrTransient indicates a network or I/O failure on the remote
	// source. Recoverable via the cache fallback; retried on the next
	// process start.
	ErrTransient = errors.New("transient remote failure")
)

// DecodeError wraps a failure to decode configuration bytes from a source.
type DecodeError struct {
	// Format names the wire format that failed ("toml", "json", "envelope").
	Format string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s configuration: %v", e.Format, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is implements error matching against ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// SchemaError reports a decoded Configuration that violates the schema
// invariant: enumeration members without entries, or patterns that do not
// compile. Treated as a decode failure, never partially accepted.
type SchemaError struct {
	// Missing lists section-qualified identifiers without entries.
	Missing []string

	// BadPatterns lists fields whose validation pattern does not compile.
	BadPatterns []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing entries: "+strings.Join(e.Missing, ", "))
	}
	if len(e.BadPatterns) > 0 {
		parts = append(parts, "invalid patterns: "+strings.Join(e.BadPatterns, ", "))
	}
	return "configuration schema violation: " + strings.Join(parts, "; ")
}

// Is implements error matching against ErrDecode.
func (e *SchemaError) Is(target error) bool {
	return target == ErrDecode
}

// TransientError wraps a network-level failure talking to the remote
// override source.
type TransientError struct {
	// Op names the failed operation ("query", "save").
	Op string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// Is implements error matching against ErrTransient.
func (e *TransientError) Is(target error) bool {
	return target == ErrTransient
}
