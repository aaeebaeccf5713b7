package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a backend failure.
type ErrorKind string

const (
	KindTimeout       ErrorKind = "timeout"
	KindAuth          ErrorKind = "auth"
	KindQuota         ErrorKind = "quota"
	KindNoText        ErrorKind = "no_text"
	KindTooLarge      ErrorKind = "too_large"
	KindTransport     ErrorKind = "transport"
	KindEmptyResponse ErrorKind = "empty_response"
)

var (
	// ErrFileTooLarge is matched by any error caused by an oversized image.
	ErrFileTooLarge = errors.New("file too large")

	// ErrAnalysisFailed is returned only when every mechanism, including
	// simulated fallback, has failed.
	ErrAnalysisFailed = errors.New("analysis failed, please retry")
)

// ExtractionError is a structured error for text extraction failures.
type ExtractionError struct {
	Kind    ErrorKind
	Backend string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Backend, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Is matches ErrFileTooLarge for oversized input.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrFileTooLarge && e.Kind == KindTooLarge
}

// InterpretationError is a structured error for language model failures.
type InterpretationError struct {
	Kind      ErrorKind
	Backend   string
	Message   string
	Retryable bool
	Cause     error
}

func (e *InterpretationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Backend, e.Message)
}

func (e *InterpretationError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *InterpretationError) IsRetryable() bool {
	return e.Retryable
}

// kindOf returns the kind carried by err, or "" for unstructured errors.
func kindOf(err error) ErrorKind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	var ie *InterpretationError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func tooLarge(backend string, size, limit int64) *ExtractionError {
	return &ExtractionError{
		Kind:    KindTooLarge,
		Backend: backend,
		Message: fmt.Sprintf("image is %d bytes, limit is %d", size, limit),
	}
}

// classifyStatus maps an HTTP status code to an error kind.
func classifyStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests:
		return KindQuota
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindTransport
	}
}

// classifyTransport maps a client-side request failure to an error kind.
func classifyTransport(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var te interface{ Timeout() bool }
	if errors.As(err, &te) && te.Timeout() {
		return KindTimeout
	}
	return KindTransport
}
