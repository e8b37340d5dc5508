package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
)

// ErrorType categorizes a failed portal request.
type ErrorType int

const (
	// ErrTypeNetwork indicates the request could not be completed (connection
	// refused, timeout, DNS failure).
	ErrTypeNetwork ErrorType = iota
	// ErrTypeUnauthorized is the distinguished 401 session-expiry signal.
	// It forces session teardown rather than a retry prompt.
	ErrTypeUnauthorized
	// ErrTypeServer indicates a non-2xx response other than 401.
	ErrTypeServer
	// ErrTypeParse indicates a malformed response body, including a 2xx save
	// response missing the expected identifier.
	ErrTypeParse
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeUnauthorized:
		return "Unauthorized"
	case ErrTypeServer:
		return "Server Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is a classified failure from the portal API.
type Error struct {
	Type       ErrorType
	Message    string // user-visible text; server-provided when available
	StatusCode int    // HTTP status (0 for transport failures)
	Err        error  // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a transport-level error.
func NewNetworkError(message string, err error) *Error {
	if os.IsTimeout(err) {
		message = "request timed out"
	}
	return &Error{Type: ErrTypeNetwork, Message: message, Err: err}
}

// NewUnauthorizedError creates the session-fatal 401 error.
func NewUnauthorizedError(message string) *Error {
	if message == "" {
		message = "Session expired. Please login again."
	}
	return &Error{Type: ErrTypeUnauthorized, Message: message, StatusCode: http.StatusUnauthorized}
}

// NewServerError creates an error for a non-2xx, non-401 response. The
// message is the body's message field when one was present, else a generic
// fallback chosen by the caller.
func NewServerError(statusCode int, message string) *Error {
	return &Error{Type: ErrTypeServer, Message: message, StatusCode: statusCode}
}

// NewParseError creates an error for a malformed response body.
func NewParseError(message string, err error) *Error {
	return &Error{Type: ErrTypeParse, Message: message, Err: err}
}

// IsUnauthorized reports whether err is the distinguished 401 failure
// anywhere in its chain.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeUnauthorized
	}
	return false
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Type == ErrTypeNetwork
	}
	return false
}

// UserMessage extracts the text worth showing to the user: the classified
// message when the error came from the portal client, a generic fallback
// otherwise.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return "An unexpected error occurred. Please try again."
}
