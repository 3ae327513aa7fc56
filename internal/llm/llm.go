package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
)

var (
	// ErrMissingCredential reports an absent API key, detected before any
	// network call is attempted.
	ErrMissingCredential = errors.New("llm: missing api credential")

	// ErrMalformedResponse reports an upstream payload that could not be
	// decoded as JSON.
	ErrMalformedResponse = errors.New("llm: malformed upstream response")
)

// StatusError carries a non-success upstream HTTP status together with the
// verbatim response body, so callers can relay both unchanged.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: upstream status %d: %s", e.Code, e.Body)
}

// ChainBackend runs a templated one-step prompt chain and returns the
// provider's structured completion.
type ChainBackend interface {
	Run(ctx context.Context, question string) (*openai.ChatCompletion, error)
}

// DirectBackend issues a raw chat-completion request and returns the
// upstream JSON document as-is.
type DirectBackend interface {
	Ask(ctx context.Context, question string) ([]byte, error)
}
