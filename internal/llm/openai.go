package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	ai "github.com/sashabaranov/go-openai"

	"github.com/chprism/mcp-client/internal/config"
	"github.com/chprism/mcp-client/internal/host"
)

var _ Provider = (*OpenAI)(nil)

// OpenAI is the tool-call-entry provider variant. Responses are a single
// message with optional text and a list of id-correlated tool calls whose
// arguments arrive JSON-encoded and must be decoded before invocation.
type OpenAI struct {
	client    *ai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewOpenAI(cfg *config.Configuration) *OpenAI {
	key := cfg.API.OpenAIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	clientConfig := ai.DefaultConfig(key)
	if cfg.API.OpenAIURL != "" {
		clientConfig.BaseURL = cfg.API.OpenAIURL
	}

	return &OpenAI{
		client:    ai.NewClientWithConfig(clientConfig),
		model:     cfg.Model.Model,
		maxTokens: cfg.Model.MaxTokens,
		timeout:   cfg.API.Timeout,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Submit(ctx context.Context, conv []Message, tools []host.Descriptor) (*Exchange, error) {
	req := ai.ChatCompletionRequest{
		Model:               o.model,
		MaxCompletionTokens: o.maxTokens,
		Messages:            openaiMessages(conv),
	}
	if len(tools) > 0 {
		req.Tools = make([]ai.Tool, 0, len(tools))
		for _, d := range tools {
			req.Tools = append(req.Tools, OpenAITool(d))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	slog.Debug("openai: sending request", "model", o.model, "messages", len(conv), "tools", len(tools))
	response, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &ProviderError{Provider: "openai", Err: err}
	}
	if len(response.Choices) == 0 {
		return nil, &ProviderError{Provider: "openai", Err: errors.New("empty completion response")}
	}
	return o.extract(response.Choices[0].Message), nil
}

// extract parses the choice message. A tool call whose arguments fail to
// decode yields one inline diagnostic segment and is skipped; the rest of
// the batch is still processed.
func (o *OpenAI) extract(msg ai.ChatCompletionMessage) *Exchange {
	ex := &Exchange{Assistant: messageFromOpenAI(msg)}
	if msg.Content != "" {
		ex.Segments = append(ex.Segments, msg.Content)
	}
	for _, tc := range msg.ToolCalls {
		var args map[string]any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			slog.Warn("openai: undecodable tool arguments", "tool", tc.Function.Name, "error", err)
			ex.Segments = append(ex.Segments, fmt.Sprintf("[error decoding arguments for %s: %v]", tc.Function.Name, err))
			continue
		}
		ex.Calls = append(ex.Calls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
			Args:      args,
		})
	}
	return ex
}

// Fold appends the original assistant message, tool-call entries included,
// then one tool-role turn per executed call carrying its result content.
func (o *OpenAI) Fold(conv []Message, ex *Exchange, results []ToolResult) []Message {
	conv = append(conv, ex.Assistant)
	for _, res := range results {
		conv = append(conv, Message{
			Role:       RoleTool,
			Content:    res.Content,
			ToolCallID: res.Call.ID,
		})
	}
	return conv
}

func (o *OpenAI) ResultAnnotation(res ToolResult) string {
	return fmt.Sprintf("[%s returned: %s]", res.Call.Name, snippet(res.Content, 200))
}

func snippet(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// messageFromOpenAI converts an OpenAI message to the neutral format.
func messageFromOpenAI(msg ai.ChatCompletionMessage) Message {
	m := Message{
		Role:       msg.Role,
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
	}
	for _, tc := range msg.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return m
}

// messageToOpenAI converts a neutral message to the OpenAI wire format.
func messageToOpenAI(msg Message) ai.ChatCompletionMessage {
	m := ai.ChatCompletionMessage{
		Role:       msg.Role,
		Content:    msg.Content,
		ToolCallID: msg.ToolCallID,
	}
	for _, tc := range msg.ToolCalls {
		m.ToolCalls = append(m.ToolCalls, ai.ToolCall{
			ID:   tc.ID,
			Type: ai.ToolTypeFunction,
			Function: ai.FunctionCall{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return m
}

func openaiMessages(conv []Message) []ai.ChatCompletionMessage {
	out := make([]ai.ChatCompletionMessage, len(conv))
	for i, msg := range conv {
		out[i] = messageToOpenAI(msg)
	}
	return out
}
