// Package apperr is the error taxonomy shared by every component:
// typed kinds, ordered severities, and a uniform shape carrying both
// an internal and a user-facing message.
package apperr

import (
	"fmt"
	"net/http"
	"time"
)

// Kind identifies the failure class of an error.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindDatabase       Kind = "database"
	KindNetwork        Kind = "network"
	KindRateLimit      Kind = "rate_limit"
	KindPayment        Kind = "payment"
	KindFileUpload     Kind = "file_upload"
	KindThirdParty     Kind = "third_party_api"
	KindUnknown        Kind = "unknown"
)

// Severity orders errors by operational impact.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is the uniform error shape. Message is internal; UserMessage
// is what API call sites may expose. The two never mix outside dev mode.
type Error struct {
	Kind        Kind
	Severity    Severity
	Message     string
	UserMessage string
	Meta        map[string]any
	Time        time.Time

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// SafeMessage returns the message suitable for external callers. The
// internal message is appended only when dev mode is on.
func (e *Error) SafeMessage(dev bool) string {
	if dev {
		return fmt.Sprintf("%s (%s)", e.UserMessage, e.Message)
	}
	return e.UserMessage
}

// Option customizes an Error at construction time.
type Option func(*Error)

// WithMeta attaches a metadata bag.
func WithMeta(meta map[string]any) Option {
	return func(e *Error) { e.Meta = meta }
}

// WithUserMessage overrides the per-kind default user-facing message.
func WithUserMessage(msg string) Option {
	return func(e *Error) { e.UserMessage = msg }
}

// WithCause records the wrapped underlying error.
func WithCause(err error) Option {
	return func(e *Error) { e.cause = err }
}

// New builds an Error with the default user message for its kind.
func New(kind Kind, msg string, severity Severity, opts ...Option) *Error {
	e := &Error{
		Kind:        kind,
		Severity:    severity,
		Message:     msg,
		UserMessage: defaultUserMessage(kind),
		Time:        time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func defaultUserMessage(kind Kind) string {
	switch kind {
	case KindValidation:
		return "The submitted data is invalid."
	case KindAuthentication:
		return "Sign in to continue."
	case KindAuthorization:
		return "You do not have permission to do that."
	case KindNotFound:
		return "The requested item was not found."
	case KindRateLimit:
		return "Too many requests. Please slow down."
	case KindPayment:
		return "The payment could not be processed."
	case KindFileUpload:
		return "The file could not be uploaded."
	case KindThirdParty:
		return "An external service is unavailable. Please try again."
	case KindNetwork, KindDatabase, KindUnknown:
		return "Something went wrong. Please try again shortly."
	default:
		return "Something went wrong. Please try again shortly."
	}
}

// HTTPStatus maps a kind to the status an API call site should return.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindPayment:
		return http.StatusPaymentRequired
	case KindThirdParty:
		return http.StatusBadGateway
	case KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
