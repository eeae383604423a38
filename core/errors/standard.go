package errors

import "fmt"

// MissingAPIKey reports an unset provider API key. Dispatch degrades to a
// no-op until a key is configured; the error is surfaced to the operator.
func MissingAPIKey() *Error {
	return New(CodeMissingAPIKey, CategoryConfig, "an API key is required for notifications to work")
}

// MissingTemplate reports an unset default template identifier
func MissingTemplate() *Error {
	return New(CodeMissingTemplate, CategoryConfig, "a default template identifier is required")
}

// InvalidConfig wraps a configuration validation failure
func InvalidConfig(cause error) *Error {
	return Wrap(CodeInvalidConfig, CategoryConfig, "invalid configuration", cause)
}

// ResolutionFailed wraps an identity store failure
func ResolutionFailed(cause error) *Error {
	return Wrap(CodeResolutionFailed, CategoryResolution, "identity store query failed", cause)
}

// TransportFailure wraps a network or client level send failure
func TransportFailure(cause error) *Error {
	return Wrap(CodeTransportError, CategoryTransport, "provider request failed", cause)
}

// ProviderRejected reports a non-2xx provider response
func ProviderRejected(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("provider rejected the message (status %d)", status)
	}
	return New(CodeProviderRejected, CategoryProvider, message)
}
