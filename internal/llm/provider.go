// Package llm implements the model provider strategies. Each provider
// submits a provider-agnostic conversation log plus a tool list to its
// backend, extracts text segments and tool calls from the response, and
// folds executed tool results back into the log in its own message shape.
package llm

import (
	"context"
	"fmt"

	"github.com/chprism/mcp-client/internal/config"
	"github.com/chprism/mcp-client/internal/host"
)

// ProviderError wraps a transport or API failure from a model backend.
// It is fatal to the current query and never retried here.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("%s: %v", e.Provider, e.Err) }
func (e *ProviderError) Unwrap() error { return e.Err }

// Provider is one model backend. The set is closed and a variant is
// selected once at startup; the orchestrator never branches on which one
// it holds.
type Provider interface {
	Name() string

	// Submit sends the conversation and tool list to the backend and
	// returns the parsed response. Blocking; fails with *ProviderError.
	Submit(ctx context.Context, conv []Message, tools []host.Descriptor) (*Exchange, error)

	// Fold appends the exchange's assistant turn and the executed tool
	// results to the conversation in this provider's message shape and
	// returns the extended log.
	Fold(conv []Message, ex *Exchange, results []ToolResult) []Message

	// ResultAnnotation renders the transcript note for one completed tool
	// call. Variants that correlate results positionally return "".
	ResultAnnotation(res ToolResult) string
}

// NewProvider constructs the provider named in the configuration.
func NewProvider(cfg *config.Configuration) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
