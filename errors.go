package goBlog

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated is returned when a mutating operation is attempted without a session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the authorization guard rejects the requester.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a post, comment or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when the case-folded username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned for an unknown username and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrRegistrationIncomplete is returned by Signup when no RegistrationCompleter is supplied.
	ErrRegistrationIncomplete = errors.New("registration completion not implemented")
	// ErrStoreUnavailable wraps backend failures of a UserStore or ContentStore.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is returned when the Engine was not built through Builder.Build.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Field names used in ValidationError.Fields.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldVerify   = "verify"
	FieldEmail    = "email"
	FieldSubject  = "subject"
	FieldContent  = "content"
	FieldComment  = "comment"
)

// ValidationError carries field-scoped messages for form re-rendering.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (v *ValidationError) add(field, msg string) {
	v.Fields[field] = msg
}

func (v *ValidationError) empty() bool {
	return v == nil || len(v.Fields) == 0
}

// Field returns the message recorded for field, or "".
func (v *ValidationError) Field(field string) string {
	if v == nil {
		return ""
	}
	return v.Fields[field]
}

func (v *ValidationError) Error() string {
	if v.empty() {
		return ErrValidation.Error()
	}
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return ErrValidation.Error() + ": " + strings.Join(names, ", ")
}

// Is makes errors.Is(err, ErrValidation) hold for every *ValidationError.
func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
