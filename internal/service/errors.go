package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error categories. Every error a service returns either wraps one of these
// or is treated as internal by the HTTP layer.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("unavailable")
)

var (
	ErrAuthenticationFailed = fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
	ErrInvalidToken         = fmt.Errorf("invalid or expired token: %w", ErrUnauthenticated)
	ErrUserInactive         = fmt.Errorf("user is inactive: %w", ErrUnauthenticated)
	ErrEmailTaken           = fmt.Errorf("email is already registered: %w", ErrConflict)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrRoutineNotFound      = fmt.Errorf("routine %w", ErrNotFound)
	ErrProgramNotFound      = fmt.Errorf("training program %w", ErrNotFound)
	ErrNotProfessor         = fmt.Errorf("only professors or admins can author training programs: %w", ErrForbidden)
	ErrStorageDisabled      = fmt.Errorf("video storage is not configured: %w", ErrUnavailable)
)

// ValidationError carries field-level messages keyed by JSON field path.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validationError returns nil when fields is empty.
func validationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func invalidField(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
