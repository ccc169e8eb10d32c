package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain error taxonomy. Controllers map these onto HTTP responses;
// nothing below ever leaks storage detail to the caller.
var (
	// ErrNotFound is returned for owner-scoped lookups of unknown ids.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when an identity is not the owner of the
	// record it is trying to read. Deliberately carries no detail.
	ErrForbidden = errors.New("forbidden")

	// ErrEmailTaken and ErrUsernameTaken abort registration before any
	// row is written.
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries field-level messages for rejected input.
// No partial write happens once one of these is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError from a field→message map.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// FieldError builds a single-field ValidationError.
func FieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidation unwraps err into a *ValidationError when possible.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
