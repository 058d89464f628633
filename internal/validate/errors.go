// Package validate centralizes input checks and the error taxonomy shared by
// the auth and tracker packages.
//
// Every check returns either the cleaned value or an *Error carrying a Kind.
// Callers branch on the kind with errors.Is:
//
//	if errors.Is(err, validate.ErrNotFound) { ... }
package validate

import "fmt"

// Kind classifies a failure.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAuth
	KindPermission
)

// Kinds double as sentinel errors so errors.Is(err, ErrValidation) matches
// any *Error of that kind.
var (
	ErrValidation error = KindValidation
	ErrNotFound   error = KindNotFound
	ErrAuth       error = KindAuth
	ErrPermission error = KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindNotFound:
		return "not found"
	case KindAuth:
		return "authentication error"
	case KindPermission:
		return "permission denied"
	default:
		return "unknown error"
	}
}

func (k Kind) Error() string { return k.String() }

// Error is a classified failure. Field is empty when the error is not tied
// to a single input.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare Kind sentinels.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Invalid builds a validation error for field.
func Invalid(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}
