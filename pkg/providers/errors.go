package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind names one member of the closed error taxonomy.
type ErrorKind string

// Error kinds returned by KindOf.
const (
	KindConfig            ErrorKind = "config"
	KindMissingCredential ErrorKind = "missing_credential"
	KindTransport         ErrorKind = "transport"
	KindAPI               ErrorKind = "api"
	KindParse             ErrorKind = "parse"
	KindValidation        ErrorKind = "validation"
	KindUnknown           ErrorKind = "unknown"
)

// KindOf classifies err into the error taxonomy. It returns "" for a nil
// error and KindUnknown for errors outside the taxonomy.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var (
		configErr     *ConfigError
		credentialErr *MissingCredentialError
		transportErr  *TransportError
		apiErr        *APIError
		parseErr      *ParseError
		validationErr *ValidationError
	)

	switch {
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &credentialErr):
		return KindMissingCredential
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &apiErr):
		return KindAPI
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &validationErr):
		return KindValidation
	default:
		return KindUnknown
	}
}

// ConfigError represents an adapter configuration error.
// It is raised before any network activity: missing identity fields,
// unresolved endpoint parameters, unsupported custom parameters, or an
// unknown provider name.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("configuration error for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// MissingCredentialError is returned at construction when no API key was
// passed explicitly and the credential source has none either.
type MissingCredentialError struct {
	Provider    string
	DisplayName string
	Model       string

	// EnvVar is the environment variable the key is expected in
	EnvVar string
}

// Error implements the error interface.
func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing API key for %s (provider %q, model %q): set %s or pass an API key explicitly",
		e.DisplayName, e.Provider, e.Model, e.EnvVar)
}

// TransportErrorKind distinguishes timeouts from other network failures.
type TransportErrorKind string

const (
	TransportTimeout TransportErrorKind = "timeout"
	TransportNetwork TransportErrorKind = "network"
)

// TransportError represents a request that never produced an HTTP response.
type TransportError struct {
	Provider    string
	DisplayName string
	Model       string

	// Kind is TransportTimeout or TransportNetwork
	Kind TransportErrorKind

	// Timeout is the configured request timeout
	Timeout time.Duration

	// Cause is the underlying *TimeoutError or *NetworkError
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Kind == TransportTimeout {
		return fmt.Sprintf("%s request timed out after %s (provider %q, model %q)",
			e.DisplayName, e.Timeout, e.Provider, e.Model)
	}
	return fmt.Sprintf("%s network error (provider %q, model %q): %v",
		e.DisplayName, e.Provider, e.Model, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// APIError represents a non-2xx response from the vendor.
type APIError struct {
	Provider    string
	DisplayName string
	Model       string

	// StatusCode is the HTTP status returned by the vendor
	StatusCode int

	// ErrorType is the vendor error type or status string (may be empty)
	ErrorType string

	// Code is the vendor error code (may be empty)
	Code string

	// Message is the decoded vendor message, or the raw body text
	Message string

	// RequestID is the vendor request id, empty when absent
	RequestID string

	// Raw is the decoded error payload or raw body text
	Raw any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s API error (status %d", e.DisplayName, e.StatusCode)
	if e.ErrorType != "" {
		msg += ", type " + e.ErrorType
	}
	if e.Code != "" {
		msg += ", code " + e.Code
	}
	if e.RequestID != "" {
		msg += ", request " + e.RequestID
	}
	return msg + "): " + e.Message
}

// ParseError represents a response that could not be normalized: the body
// was not JSON, not a JSON object, or lacked a field the adapter requires.
type ParseError struct {
	Provider    string
	DisplayName string
	Model       string

	// Detail describes what was wrong with the response
	Detail string

	// Raw is the raw body text or the decoded payload
	Raw any

	// Cause is the underlying decode error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response parse error (provider %q, model %q): %s",
		e.DisplayName, e.Provider, e.Model, e.Detail)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError represents caller input that violates the message
// contract. It is raised before any network activity.
type ValidationError struct {
	// Field is the name of the invalid field (e.g. "messages[2].role")
	Field string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}
