package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed submission. Every failure is terminal for the
// current submission; nothing is retried automatically.
type ErrorKind string

const (
	// KindValidation is a local failure detected before any network call.
	KindValidation ErrorKind = "validation"
	// KindRejected is a 422 response carrying structured field errors.
	KindRejected ErrorKind = "rejected"
	// KindServer is any other HTTP error status with a decodable or raw body.
	KindServer ErrorKind = "server"
	// KindTimeout is a submission that exceeded the fixed request timeout.
	KindTimeout ErrorKind = "timeout"
	// KindNetwork is a transport-level failure with no response at all.
	KindNetwork ErrorKind = "network"
	// KindUnknown is anything the other kinds do not cover.
	KindUnknown ErrorKind = "unknown"
)

// ClassifiedError is the single error type surfaced to the user for a failed
// submission. Field is set only for validation failures.
type ClassifiedError struct {
	Kind    ErrorKind
	Field   string
	Message string
	cause   error
}

func (e *ClassifiedError) Error() string {
	if e.Kind == KindValidation && e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// NewValidationError reports a local validation failure naming the offending field.
func NewValidationError(field, message string) *ClassifiedError {
	return &ClassifiedError{Kind: KindValidation, Field: field, Message: message}
}

// NewRequestRejected reports a structured validation rejection from the service.
func NewRequestRejected(message string) *ClassifiedError {
	return &ClassifiedError{Kind: KindRejected, Message: message}
}

// NewServerError reports an HTTP error status with the best message that could
// be decoded from the response body.
func NewServerError(message string) *ClassifiedError {
	return &ClassifiedError{Kind: KindServer, Message: message}
}

// NewTimeoutError reports that the request exceeded the fixed timeout. The
// message is deliberately distinct from generic network failure text.
func NewTimeoutError(cause error) *ClassifiedError {
	return &ClassifiedError{Kind: KindTimeout, Message: "connection timed out", cause: cause}
}

// NewNetworkError reports a transport-level failure with no response.
func NewNetworkError(cause error) *ClassifiedError {
	return &ClassifiedError{Kind: KindNetwork, Message: "network error", cause: cause}
}

// NewUnknownError reports an unclassified failure, keeping the message of the
// underlying error when one is available.
func NewUnknownError(cause error) *ClassifiedError {
	msg := "unknown error"
	if cause != nil && cause.Error() != "" {
		msg = cause.Error()
	}
	return &ClassifiedError{Kind: KindUnknown, Message: msg, cause: cause}
}

// KindOf returns the classification of err, or KindUnknown when err carries
// no ClassifiedError in its chain.
func KindOf(err error) ErrorKind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
