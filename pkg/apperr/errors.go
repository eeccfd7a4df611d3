// Package apperr holds the error taxonomy shared by the ingestion pipeline
// and its transports.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindInvalidInput         Kind = "invalid_input"
	KindExtractionFailed     Kind = "extraction_failed"
	KindInferenceUnavailable Kind = "inference_unavailable"
	KindMalformedModelOutput Kind = "malformed_model_output"
	KindValidationRejected   Kind = "validation_rejected"
	KindIdentityNotFound     Kind = "identity_not_found"
	KindInternal             Kind = "internal"
)

// Error is a classified failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so errors.Is(err, apperr.New(kind, "")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }

func ExtractionFailed(cause error) *Error {
	return Wrap(KindExtractionFailed, "failed to extract text from resume", cause)
}

func InferenceUnavailable(cause error) *Error {
	return Wrap(KindInferenceUnavailable, "inference service is unavailable", cause)
}

func MalformedModelOutput(cause error) *Error {
	return Wrap(KindMalformedModelOutput, "model returned an unusable response", cause)
}

func ValidationRejected(reason string) *Error { return New(KindValidationRejected, reason) }

func IdentityNotFound(email string) *Error {
	return New(KindIdentityNotFound, fmt.Sprintf("no account found for %q", email))
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err.
// Both inference kinds share one message naming the dependency.
func MessageOf(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal error"
	}
	switch e.Kind {
	case KindInferenceUnavailable, KindMalformedModelOutput:
		return "Resume analysis is temporarily unavailable: the inference service (Ollama) did not return a usable answer. Please try again later."
	}
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindValidationRejected:
		return http.StatusBadRequest
	case KindIdentityNotFound:
		return http.StatusNotFound
	case KindExtractionFailed:
		return http.StatusUnprocessableEntity
	case KindInferenceUnavailable, KindMalformedModelOutput:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
