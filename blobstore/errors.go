package blobstore

import "fmt"

// ConfigError indicates an invalid or unusable configuration field.
// It is raised only at backend construction.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConfigError struct {
	Field string
	cause error
}

// NewConfigError wraps cause as a construction failure of the named field.
func NewConfigError(field string, cause error) *ConfigError {
	return &ConfigError{Field: field, cause: cause}
}

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid config field %q: %v", e.Field, e.cause)
	}
	return fmt.Sprintf("invalid config field %q", e.Field)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// TransportError indicates a network-level failure (connection, DNS, TLS)
// before an HTTP status was obtained. Transport failures are surfaced
// immediately and never retried; only status-level server failures are.
//
// The original underlying error can be accessed via errors.Unwrap.
type TransportError struct {
	Op    string
	cause error
}

// NewTransportError wraps cause as a transport failure of op.
func NewTransportError(op string, cause error) *TransportError {
	return &TransportError{Op: op, cause: cause}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.cause)
}

func (e *TransportError) Unwrap() error { return e.cause }

// StatusError indicates a terminal HTTP status failure: a server error that
// survived the retry budget, or any other unexpected status. Body carries
// the response body decoded as text for diagnostics.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Code, e.Body)
}

// Retryable reports whether the status is a server-side failure eligible
// for another attempt.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500 && e.Code <= 599
}
