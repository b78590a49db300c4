package domain

import "errors"

// ErrorKind classifies a failure so the transport layer can decide how to
// render it without inspecting concrete error types.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindConflict        ErrorKind = "conflict"
	KindNotFound        ErrorKind = "not_found"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindUpstream        ErrorKind = "upstream"
	KindUnknown         ErrorKind = "unknown"
)

// Error is the tagged failure returned by services and adapters.
// Message is safe to show to API clients; Err keeps the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind, so errors.Is(err, ErrNotFound) holds for any
// not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" || t.Message == e.Message {
		return t.Kind == e.Kind
	}
	return false
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrUpstream   = &Error{Kind: KindUpstream}

	// ErrInvalidCredentials is the single outcome of a failed login, whether
	// the username is unknown or the password is wrong.
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "invalid username or password"}

	ErrUserNotFound    = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrPasswordMissing = &Error{Kind: KindValidation, Message: "password required"}
	ErrInvalidInput    = &Error{Kind: KindValidation, Message: "invalid password input"}
)

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewConflictError(msg string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

func NewUpstreamError(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: cause}
}

func NewUnknownError(msg string, cause error) *Error {
	return &Error{Kind: KindUnknown, Message: msg, Err: cause}
}

// KindOf reports the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
