// Package apperror defines the closed set of error kinds surfaced by the
// store, the transaction coordinator and the session engine.
package apperror

import (
	"errors"
	"fmt"
)

// Kind categorizes an error. The zero value is an unexpected internal error.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidationFailed: bad input shape or content.
	KindValidationFailed
	// KindDuplicateKey: uniqueness violation.
	KindDuplicateKey
	// KindNotFound: referenced entity absent.
	KindNotFound
	// KindAuthenticationFailed: bad credentials.
	KindAuthenticationFailed
	// KindAuthorizationFailed: missing, invalid, expired or revoked token.
	KindAuthorizationFailed
	// KindWeakCredential: password policy violation.
	KindWeakCredential
	// KindDependencyUnavailable: media or notification collaborator failure.
	KindDependencyUnavailable
	// KindTransactionAborted: internal consistency failure inside a unit. Never retried.
	KindTransactionAborted
)

func (k Kind) String() string {
	switch k {
	case KindValidationFailed:
		return "VALIDATION_FAILED"
	case KindDuplicateKey:
		return "DUPLICATE_KEY"
	case KindNotFound:
		return "NOT_FOUND"
	case KindAuthenticationFailed:
		return "AUTHENTICATION_FAILED"
	case KindAuthorizationFailed:
		return "AUTHORIZATION_FAILED"
	case KindWeakCredential:
		return "WEAK_CREDENTIAL"
	case KindDependencyUnavailable:
		return "DEPENDENCY_UNAVAILABLE"
	case KindTransactionAborted:
		return "TRANSACTION_ABORTED"
	default:
		return "INTERNAL_ERROR"
	}
}

// Error is a tagged error. Message is safe to show to callers; Err is the
// underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidationFailed, format, args...)
}

func Duplicate(format string, args ...any) *Error {
	return New(KindDuplicateKey, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindAuthorizationFailed, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-safe message for err. Internal errors never leak
// their detail.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindInternal {
		return ae.Message
	}
	return "Something went wrong!"
}
