package provider

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies an AI operation failure. The set is closed: every
// error crossing a provider boundary carries exactly one kind.
type ErrorKind string

// Error kinds.
const (
	KindRateLimited        ErrorKind = "rate_limited"
	KindTokenLimitExceeded ErrorKind = "token_limit_exceeded"
	KindInvalidRequest     ErrorKind = "invalid_request"
	KindAuthFailed         ErrorKind = "authentication_failed"
	KindNetworkError       ErrorKind = "network_error"
	KindUnavailable        ErrorKind = "provider_unavailable"
	KindBudgetExceeded     ErrorKind = "budget_exceeded"
	KindUnknown            ErrorKind = "unknown"
)

// Sentinel errors for registry and routing operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoProvider indicates the registry has no providers at all.
	ErrNoProvider = errors.New("no AI provider available")
)

// Error wraps AI operation failures with context.
//
// Retryable is the sole trigger for fallback-chain advancement in the
// router, so adapters constructing an Error must set it deliberately.
// Errors categorized as transient (rate limits, network failures, provider
// outages) should be retryable; request and credential problems should not.
type Error struct {
	Kind       ErrorKind     // Failure category
	Provider   string        // Originating provider ID
	Op         string        // Operation that failed ("complete", "classify", ...)
	Message    string        // Human-readable description
	Retryable  bool          // Whether retrying against another candidate may succeed
	RetryAfter time.Duration // Suggested delay before retrying (0 = unspecified)
	Err        error         // Underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Provider, e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with retryability defaulted from the kind.
// Use WithRetryable to override for cases where the same kind is sometimes
// transient (e.g. provider_unavailable during a rolling deploy).
func NewError(kind ErrorKind, providerID, op, message string) *Error {
	return &Error{
		Kind:      kind,
		Provider:  providerID,
		Op:        op,
		Message:   message,
		Retryable: defaultRetryable(kind),
	}
}

// WithRetryable overrides the retryable flag.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithRetryAfter sets the suggested retry delay.
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	e.RetryAfter = d
	return e
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// defaultRetryable maps kinds to their usual retryability. Unavailable and
// unknown failures default to retryable; adapters narrow this per case.
func defaultRetryable(kind ErrorKind) bool {
	switch kind {
	case KindRateLimited, KindNetworkError, KindUnavailable, KindUnknown:
		return true
	default:
		return false
	}
}

// IsRetryable checks if an error is safe to retry against an alternate
// (provider, model) candidate without caller intervention.
func IsRetryable(err error) bool {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Retryable
	}
	return false
}

// KindOf returns the error kind, or KindUnknown for errors outside the
// taxonomy.
func KindOf(err error) ErrorKind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return KindUnknown
}
