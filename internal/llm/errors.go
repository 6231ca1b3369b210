package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// FailureKind classifies a single provider attempt failure.
type FailureKind int

// Failure kinds, in escalating order of surprise.
const (
	FailureUnavailable FailureKind = iota
	FailureTimeout
	FailureNetwork
	FailureInvalidResponse
)

func (k FailureKind) String() string {
	switch k {
	case FailureUnavailable:
		return "unavailable"
	case FailureTimeout:
		return "timeout"
	case FailureNetwork:
		return "network"
	case FailureInvalidResponse:
		return "invalid response"
	}
	return "unknown"
}

// ProviderError records a failed attempt against one provider. Attempts
// return errors for the orchestrator to inspect; no unwinding control flow.
type ProviderError struct {
	Err      error
	Provider string
	Kind     FailureKind
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newProviderError wraps err, classifying timeouts so they fall back like
// any other network failure.
func newProviderError(provider string, kind FailureKind, err error) *ProviderError {
	if kind == FailureNetwork {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			kind = FailureTimeout
		}
	}
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// AllProvidersFailedError is surfaced when every provider in the chain was
// skipped or failed. It carries each attempt's message for diagnostics.
type AllProvidersFailedError struct {
	Failures []*ProviderError
}

func (e *AllProvidersFailedError) Error() string {
	if len(e.Failures) == 0 {
		return "all providers failed: no providers configured"
	}
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return "all providers failed: " + strings.Join(msgs, "; ")
}
