package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrMissingCredential is returned when no API key is configured.
	ErrMissingCredential = errors.New("missing LLM API key")
	// ErrEmptyReply is returned when a successful response carries no message content.
	ErrEmptyReply = errors.New("no response from the model")
)

// TransportError represents a failure to reach the provider.
type TransportError struct {
	Op      string
	Timeout bool
	Cause   error
}

func (e *TransportError) Error() string {
	kind := "transport error"
	if e.Timeout {
		kind = "timeout"
	}
	return fmt.Sprintf("%s during %s: %v", kind, e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// UpstreamError represents a non-2xx response from the provider.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth retrying (rate limits and server errors).
func (e *UpstreamError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// newTransportError classifies err as a timeout or a plain transport failure.
func newTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Timeout: isTimeout(err), Cause: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return !errors.Is(transportErr.Cause, context.Canceled)
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Retryable()
	}
	return false
}
