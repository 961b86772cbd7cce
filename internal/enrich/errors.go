package enrich

import "fmt"

// ErrorKind classifies every failure the enrichment pipeline can report.
type ErrorKind string

const (
	// EmptyInput: the normalized text is empty or whitespace-only.
	EmptyInput ErrorKind = "EmptyInput"
	// InsufficientText: the text is too short for the requested analysis.
	InsufficientText ErrorKind = "InsufficientText"
	// ProviderUnavailable: the external provider is down or still loading
	// its model. Retried once; RetryAfterSeconds carries the provider's
	// readiness estimate when it gave one.
	ProviderUnavailable ErrorKind = "ProviderUnavailable"
	// ProviderTimeout: the call exceeded its deadline. Not retried.
	ProviderTimeout ErrorKind = "ProviderTimeout"
	// MalformedStructuredOutput: the provider's response could not be
	// parsed as the expected JSON.
	MalformedStructuredOutput ErrorKind = "MalformedStructuredOutput"
	// SchemaViolation: the response parsed but failed contract validation.
	SchemaViolation ErrorKind = "SchemaViolation"
	// WordNotFound: the dictionary has no entry for the requested word.
	WordNotFound ErrorKind = "WordNotFound"
	// ConfigurationMissing: the artifact needs a credential or setting
	// that is not configured.
	ConfigurationMissing ErrorKind = "ConfigurationMissing"
)

// Error is the typed failure attached to a single artifact or lookup.
type Error struct {
	Kind              ErrorKind `json:"kind"`
	Message           string    `json:"message"`
	RetryAfterSeconds int       `json:"retryAfterSeconds,omitempty"`
	cause             error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds a plain taxonomy error.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf builds a taxonomy error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError keeps the underlying cause reachable via errors.Unwrap.
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Unavailable builds a ProviderUnavailable error with a retry hint. A
// non-positive hint falls back to the conventional 20 seconds.
func Unavailable(message string, retryAfterSeconds int) *Error {
	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 20
	}
	return &Error{Kind: ProviderUnavailable, Message: message, RetryAfterSeconds: retryAfterSeconds}
}
