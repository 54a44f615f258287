// Package agent drives the conversation orchestration loop: submit the
// conversation, execute any tool calls the model requested, fold the
// results back in, and repeat until the model answers in plain text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chprism/mcp-client/internal/host"
	"github.com/chprism/mcp-client/internal/llm"
)

// ErrTurnLimit reports that a query exhausted its model-turn budget, which
// usually means the model kept requesting tools without converging.
var ErrTurnLimit = errors.New("turn limit reached")

// ToolHost is the slice of the tool host the orchestrator needs: the
// descriptor listing sourced once per query, and the invoker.
type ToolHost interface {
	ListTools(ctx context.Context) ([]host.Descriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// Agent owns no cross-query state; every ProcessQuery call builds its
// conversation from scratch and discards it on return.
type Agent struct {
	provider llm.Provider
	host     ToolHost
	maxTurns int
}

func New(provider llm.Provider, th ToolHost, maxTurns int) *Agent {
	return &Agent{provider: provider, host: th, maxTurns: maxTurns}
}

// ProcessQuery runs one query to completion and returns the assembled
// transcript: assistant prose and tool annotations in the order they
// occurred, joined with newlines. It blocks until the model produces a
// response with no tool calls, an error occurs, or the turn guard trips.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (string, error) {
	conv := []llm.Message{{Role: llm.RoleUser, Content: query}}

	tools, err := a.host.ListTools(ctx)
	if err != nil {
		return "", err
	}

	var transcript []string
	for turn := 0; ; turn++ {
		if a.maxTurns > 0 && turn >= a.maxTurns {
			return "", fmt.Errorf("agent: %w after %d turns", ErrTurnLimit, turn)
		}

		ex, err := a.provider.Submit(ctx, conv, tools)
		if err != nil {
			return "", err
		}
		transcript = append(transcript, ex.Segments...)

		if len(ex.Calls) == 0 {
			return strings.Join(transcript, "\n"), nil
		}

		// Calls run strictly in order; a failed invocation aborts the
		// whole query rather than being folded back as a model-visible
		// error turn.
		results := make([]llm.ToolResult, 0, len(ex.Calls))
		for _, call := range ex.Calls {
			transcript = append(transcript, fmt.Sprintf("[calling %s with args %v]", call.Name, call.Args))
			slog.Info("invoking tool", "tool", call.Name, "turn", turn)

			content, err := a.host.CallTool(ctx, call.Name, call.Args)
			if err != nil {
				return "", err
			}
			res := llm.ToolResult{Call: call, Content: content}
			if note := a.provider.ResultAnnotation(res); note != "" {
				transcript = append(transcript, note)
			}
			results = append(results, res)
		}

		conv = a.provider.Fold(conv, ex, results)
	}
}
