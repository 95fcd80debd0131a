package application

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when a login attempt cannot be
	// verified against the configured credential checker.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrStoreUnavailable is returned when the ledger's row store cannot be
	// reached or refuses an operation. Fatal for the operation; callers may
	// retry manually.
	ErrStoreUnavailable = errors.New("application: row store unavailable")
	// ErrEmptyReport is returned when the requested period holds no events.
	// Recoverable; no report file should be produced.
	ErrEmptyReport = errors.New("application: no events in requested period")
	// ErrInvalidToken is returned when an access token cannot be verified.
	ErrInvalidToken = errors.New("application: invalid token")
)

// DuplicateError reports a recording attempt for a (principal, date, kind)
// triple that is already in the ledger. No row is written.
type DuplicateError struct {
	Kind EventKind
	Date string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("event %q already recorded on %s", e.Kind.Label(), e.Date)
}

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
