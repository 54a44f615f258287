package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/chprism/mcp-client/internal/config"
	"github.com/chprism/mcp-client/internal/host"
)

var _ Provider = (*Anthropic)(nil)

// Anthropic is the content-block provider variant. Responses arrive as a
// sequence of typed blocks; tool results fold back as plain user turns,
// correlated with their calls by position rather than by id.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

func NewAnthropic(cfg *config.Configuration) *Anthropic {
	// The SDK reads ANTHROPIC_API_KEY on its own; the flag only overrides.
	var opts []option.RequestOption
	if cfg.API.AnthropicKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.API.AnthropicKey))
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model.Model,
		maxTokens: int64(cfg.Model.MaxTokens),
		timeout:   cfg.API.Timeout,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Submit(ctx context.Context, conv []Message, tools []host.Descriptor) (*Exchange, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages:  anthropicMessages(conv),
	}
	if len(tools) > 0 {
		params.Tools = make([]anthropic.ToolUnionParam, 0, len(tools))
		for _, d := range tools {
			params.Tools = append(params.Tools, AnthropicTool(d))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	slog.Debug("anthropic: sending request", "model", a.model, "messages", len(conv), "tools", len(tools))
	message, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, &ProviderError{Provider: "anthropic", Err: err}
	}
	return a.extract(message), nil
}

// extract walks the response content blocks. Text blocks become transcript
// segments; the first tool_use block becomes the turn's single tool call.
// One call per turn keeps positional correlation unambiguous.
func (a *Anthropic) extract(message *anthropic.Message) *Exchange {
	ex := &Exchange{Assistant: Message{Role: RoleAssistant}}
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			ex.Segments = append(ex.Segments, b.Text)
			ex.Assistant.Content += b.Text
		case anthropic.ToolUseBlock:
			if len(ex.Calls) > 0 {
				slog.Warn("anthropic: ignoring extra tool_use block", "tool", b.Name)
				continue
			}
			args := make(map[string]any)
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &args); err != nil {
					slog.Warn("anthropic: undecodable tool input", "tool", b.Name, "error", err)
				}
			}
			ex.Calls = append(ex.Calls, ToolCall{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: string(b.Input),
				Args:      args,
			})
		}
	}
	return ex
}

// Fold appends an assistant turn carrying the interleaved text, then one
// user turn per result carrying the raw tool content.
func (a *Anthropic) Fold(conv []Message, ex *Exchange, results []ToolResult) []Message {
	if strings.TrimSpace(ex.Assistant.Content) != "" {
		conv = append(conv, Message{Role: RoleAssistant, Content: ex.Assistant.Content})
	}
	for _, res := range results {
		conv = append(conv, Message{Role: RoleUser, Content: res.Content})
	}
	return conv
}

// ResultAnnotation is empty: this variant does not echo tool results into
// the transcript, the next model turn responds to them directly.
func (a *Anthropic) ResultAnnotation(ToolResult) string { return "" }

// anthropicMessages converts the neutral log to Anthropic message params.
// The variant's log only ever holds plain text turns.
func anthropicMessages(conv []Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, msg := range conv {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		switch msg.Role {
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return out
}
