package lastfm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a Last.fm API error.
type ErrorKind int

const (
	// KindGeneric is any API error without a more specific kind.
	KindGeneric ErrorKind = iota
	// KindInvalidParameters means the request carried a missing or invalid
	// parameter (error code 6).
	KindInvalidParameters
	// KindOperationFailed means Last.fm failed on the backend (error code 8).
	KindOperationFailed
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidParameters:
		return "invalid parameters"
	case KindOperationFailed:
		return "operation failed"
	default:
		return "generic"
	}
}

// Error represents a Last.fm API error.
//
// The Error type provides structured error information including
// the Last.fm error code, message and kind. Code 0 is used for
// responses whose shape could not be interpreted at all (for example a
// plain-text body returned with an error status).
type Error struct {
	Code    int       // Last.fm error code
	Message string    // Error message from Last.fm
	Kind    ErrorKind // Classification of Code, see Classify
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Is checks if the target error is a Last.fm error with the same code.
//
// This allows errors.Is() to work with *Error types and the predefined
// ErrInvalidParameters and ErrOperationFailed values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Temporary returns true if the error is temporary and the request
// may succeed if sent again.
//
// The client never retries on its own; this is a hint for callers.
//
// The following Last.fm error codes are considered temporary:
//   - 11: Service Offline - temporarily unavailable
//   - 16: Service Temporarily Unavailable
//   - 29: Rate Limit Exceeded
func (e *Error) Temporary() bool {
	switch e.Code {
	case ErrCodeServiceOffline, ErrCodeTempUnavailable, ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

// Unexpected reports whether the error describes a response that could not
// be interpreted, rather than an error reported by Last.fm itself.
func (e *Error) Unexpected() bool {
	return e.Code == ErrCodeUnexpectedResponse
}

// Classify maps a Last.fm error code and message to an *Error.
//
// Code 6 is KindInvalidParameters, code 8 is KindOperationFailed and every
// other code is KindGeneric.
func Classify(code int, message string) *Error {
	kind := KindGeneric
	switch code {
	case ErrCodeInvalidParameters:
		kind = KindInvalidParameters
	case ErrCodeOperationFailed:
		kind = KindOperationFailed
	}
	return &Error{Code: code, Message: message, Kind: kind}
}

// Common Last.fm error codes.
const (
	ErrCodeUnexpectedResponse   = 0
	ErrCodeInvalidService       = 2
	ErrCodeInvalidMethod        = 3
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidFormat        = 5
	ErrCodeInvalidParameters    = 6
	ErrCodeInvalidResourceSpec  = 7
	ErrCodeOperationFailed      = 8
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeServiceOffline       = 11
	ErrCodeSubscribersOnly      = 12
	ErrCodeInvalidSignature     = 13
	ErrCodeUnauthorizedToken    = 14
	ErrCodeExpiredToken         = 15
	ErrCodeTempUnavailable      = 16
	ErrCodeSuspendedAPIKey      = 26
	ErrCodeRateLimitExceeded    = 29
)

// Predefined errors for common cases.
var (
	// ErrInvalidParameters matches any *Error with code 6 via errors.Is.
	ErrInvalidParameters = Classify(ErrCodeInvalidParameters, "invalid parameters")

	// ErrOperationFailed matches any *Error with code 8 via errors.Is.
	ErrOperationFailed = Classify(ErrCodeOperationFailed, "operation failed")

	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("lastfm: invalid configuration")

	// ErrInvalidArgument is returned when a call is rejected before any
	// network I/O because of a bad argument.
	ErrInvalidArgument = errors.New("lastfm: invalid argument")

	// ErrClientClosed is returned by Send after Close has been called.
	ErrClientClosed = errors.New("lastfm: client closed")

	// ErrResponseTooLarge is wrapped in a *TransportError when a response
	// body exceeds the client's size limit.
	ErrResponseTooLarge = errors.New("lastfm: response too large")
)

// TransportError wraps a network-level failure (DNS, TLS, connection
// reset, unreadable body) that happened while talking to Last.fm.
//
// Context cancellation and deadlines are never reported as a
// TransportError; they surface as the context's own error.
type TransportError struct {
	Method string // Last.fm API method, e.g. "user.getInfo"
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("lastfm: %s: transport failure: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MissingFieldError is returned by the Parse functions when a required key
// is absent from a JSON object.
type MissingFieldError struct {
	Type  string // model being parsed, e.g. "Track"
	Field string // absent JSON key, e.g. "name"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("lastfm: %s: missing field %q", e.Type, e.Field)
}

func missingField(typ, field string) error {
	return &MissingFieldError{Type: typ, Field: field}
}
