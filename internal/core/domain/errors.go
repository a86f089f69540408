package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("authorization denied")
	ErrTooManyAttempts        = errors.New("too many failed login attempts")

	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialExists   = errors.New("credential already exists")

	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("student already exists")

	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// TokenErrorKind classifies why a presented token was rejected.
type TokenErrorKind int

const (
	TokenMissing TokenErrorKind = iota + 1
	TokenMalformed
	TokenExpired
	SignatureInvalid
)

func (k TokenErrorKind) String() string {
	switch k {
	case TokenMissing:
		return "missing"
	case TokenMalformed:
		return "malformed"
	case TokenExpired:
		return "expired"
	case SignatureInvalid:
		return "signature_invalid"
	default:
		return "unknown"
	}
}

// AuthError is returned by token validation. Err holds the underlying cause
// for logging and is never shown to clients.
type AuthError struct {
	Kind TokenErrorKind
	Err  error
}

func NewAuthError(kind TokenErrorKind, cause error) *AuthError {
	return &AuthError{Kind: kind, Err: cause}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
	}
	return "token " + e.Kind.String()
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsTokenError reports whether err is an AuthError of the given kind.
func IsTokenError(err error, kind TokenErrorKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}
