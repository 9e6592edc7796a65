package apperr

import "errors"

// Kind classifies an application error so the HTTP boundary can map it
// to a status code exactly once.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuth
	KindConfig
	KindStore
)

// Error is an application error carrying a classification and a
// client-safe message. Store errors keep the cause for logging but the
// message never exposes backend internals.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error { return e.cause }

// Validation reports malformed or missing input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Auth reports bad credentials, an invalid token, or an OAuth mismatch.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// Config reports missing or invalid process configuration.
func Config(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

// Store wraps a backing-store failure. The client-facing message is
// fixed; the cause is retained for structured logging.
func Store(cause error) *Error {
	return &Error{Kind: KindStore, Message: "internal server error", cause: cause}
}

// KindOf extracts the classification of err, or zero if err is not an
// application error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
