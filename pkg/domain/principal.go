package domain

import (
	"strings"

	dErrors "vitacare/pkg/domain-errors"
)

// Principal is an opaque on-platform identity (a wallet address). It is
// immutable and compared by value; registries reference principals but never
// store them as mutable state.
//
// Usage: construct via ParsePrincipal at trust boundaries to enforce the
// format rules; direct casting bypasses validation.
type Principal string

const maxPrincipalLen = 64

// ParsePrincipal constructs a Principal from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, contains
// whitespace, or exceeds the maximum length; no other errors are expected.
func ParsePrincipal(s string) (Principal, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot contain whitespace")
	}
	if len(s) > maxPrincipalLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal exceeds maximum length")
	}
	return Principal(s), nil
}

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool {
	return p == ""
}

// String returns the wire representation of the principal.
func (p Principal) String() string {
	return string(p)
}
