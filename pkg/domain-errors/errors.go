// Package domainerrors defines the coded error type shared by all registry
// modules. Services construct these at the point a business rule fails;
// transport translates codes to HTTP statuses in exactly one place.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure. Codes are stable API surface: handlers,
// tests, and clients branch on them, never on message text.
type Code string

const (
	// CodeNotFound signals a referenced record or principal does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict signals a duplicate creation or uniqueness violation.
	CodeConflict Code = "conflict"
	// CodeUnauthorized signals the caller failed authentication or the
	// authorization gate.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden signals an authenticated caller lacking permission for a
	// specific resource.
	CodeForbidden Code = "forbidden"
	// CodeBadRequest signals a malformed request envelope.
	CodeBadRequest Code = "bad_request"
	// CodeValidation signals a request that parsed but failed validation.
	CodeValidation Code = "validation_failed"
	// CodeInvalidInput signals a structurally invalid argument, such as a
	// non-positive claim amount or an empty required string.
	CodeInvalidInput Code = "invalid_input"
	// CodeInvalidState signals an operation attempted on a record whose
	// lifecycle state forbids it, such as re-processing a claim.
	CodeInvalidState Code = "invalid_state"
	// CodeInvariantViolation signals a domain invariant breach detected by an
	// aggregate constructor or transition guard.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeNotInitialized signals an operation that requires prior setup, such
	// as a configured admin principal.
	CodeNotInitialized Code = "not_initialized"
	// CodeTimeout signals a context cancellation or deadline.
	CodeTimeout Code = "timeout"
	// CodeInternal signals an unexpected infrastructure failure.
	CodeInternal Code = "internal"
)

// DomainError carries a code, a human-readable message, and an optional cause.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New constructs a DomainError with no underlying cause.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
		if err == nil {
			return false
		}
	}
	return false
}

// Is is a readability alias for HasCode at call sites that branch on a code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the outermost code from err, or CodeInternal when err is
// not a DomainError.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the transport layer responds
// with. Unknown codes map to 500 so nothing leaks as an accidental success.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidState:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeBadRequest, CodeValidation, CodeInvalidInput, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeNotInitialized:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
