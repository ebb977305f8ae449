package provider

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestError_Message(t *testing.T) {
	err := NewError(KindRateLimited, "claude", "complete", "429 from upstream")

	want := "claude complete: rate_limited: 429 from upstream"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewError(KindNetworkError, "claude", "stream", "transport failure").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	wrapped := fmt.Errorf("pipeline step: %w", err)
	var aiErr *Error
	if !errors.As(wrapped, &aiErr) {
		t.Fatal("expected errors.As to find *Error through wrapping")
	}
	if aiErr.Kind != KindNetworkError {
		t.Errorf("expected network_error, got %s", aiErr.Kind)
	}
}

func TestDefaultRetryable(t *testing.T) {
	tests := []struct {
		kind      ErrorKind
		retryable bool
	}{
		{KindRateLimited, true},
		{KindNetworkError, true},
		{KindUnavailable, true},
		{KindUnknown, true},
		{KindAuthFailed, false},
		{KindInvalidRequest, false},
		{KindTokenLimitExceeded, false},
		{KindBudgetExceeded, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := NewError(tt.kind, "p", "complete", "boom")
			if IsRetryable(err) != tt.retryable {
				t.Errorf("kind %s: expected retryable=%v", tt.kind, tt.retryable)
			}
		})
	}
}

func TestIsRetryable_Override(t *testing.T) {
	err := NewError(KindUnavailable, "p", "complete", "planned maintenance").WithRetryable(false)
	if IsRetryable(err) {
		t.Error("expected override to win over the kind default")
	}

	if IsRetryable(errors.New("plain error")) {
		t.Error("expected plain errors to be non-retryable")
	}
}

func TestError_RetryAfter(t *testing.T) {
	err := NewError(KindRateLimited, "p", "complete", "slow down").WithRetryAfter(2 * time.Second)
	if err.RetryAfter != 2*time.Second {
		t.Errorf("expected retry delay 2s, got %v", err.RetryAfter)
	}
}
