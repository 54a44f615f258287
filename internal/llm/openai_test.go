package llm

import (
	"strings"
	"testing"

	ai "github.com/sashabaranov/go-openai"
)

func TestOpenAIExtract(t *testing.T) {
	o := &OpenAI{}
	msg := ai.ChatCompletionMessage{
		Role:    ai.ChatMessageRoleAssistant,
		Content: "let me check",
		ToolCalls: []ai.ToolCall{
			{ID: "call_1", Type: ai.ToolTypeFunction, Function: ai.FunctionCall{Name: "add", Arguments: `{"a": 1}`}},
			{ID: "call_2", Type: ai.ToolTypeFunction, Function: ai.FunctionCall{Name: "mul", Arguments: `{bad json`}},
			{ID: "call_3", Type: ai.ToolTypeFunction, Function: ai.FunctionCall{Name: "sub", Arguments: `{"b": 2}`}},
		},
	}

	ex := o.extract(msg)

	if len(ex.Calls) != 2 {
		t.Fatalf("Calls = %d, want 2 (malformed one skipped)", len(ex.Calls))
	}
	if ex.Calls[0].Name != "add" || ex.Calls[1].Name != "sub" {
		t.Errorf("calls = %q, %q", ex.Calls[0].Name, ex.Calls[1].Name)
	}
	// round trip: JSON-encoded arguments decode back to the structured form
	if got := ex.Calls[0].Args["a"]; got != float64(1) {
		t.Errorf("Args[a] = %v (%T), want 1", got, got)
	}
	if ex.Calls[0].ID != "call_1" {
		t.Errorf("ID = %q", ex.Calls[0].ID)
	}

	// exactly one diagnostic segment for the malformed call
	if len(ex.Segments) != 2 {
		t.Fatalf("Segments = %v, want content + one diagnostic", ex.Segments)
	}
	if ex.Segments[0] != "let me check" {
		t.Errorf("Segments[0] = %q", ex.Segments[0])
	}
	if !strings.Contains(ex.Segments[1], "mul") || !strings.Contains(ex.Segments[1], "error decoding") {
		t.Errorf("diagnostic = %q", ex.Segments[1])
	}

	// the assistant turn keeps all entries, decodable or not
	if len(ex.Assistant.ToolCalls) != 3 {
		t.Errorf("Assistant.ToolCalls = %d, want 3", len(ex.Assistant.ToolCalls))
	}
}

func TestOpenAIExtractTextOnly(t *testing.T) {
	o := &OpenAI{}
	ex := o.extract(ai.ChatCompletionMessage{Role: ai.ChatMessageRoleAssistant, Content: "4"})

	if len(ex.Calls) != 0 {
		t.Errorf("Calls = %d, want 0", len(ex.Calls))
	}
	if len(ex.Segments) != 1 || ex.Segments[0] != "4" {
		t.Errorf("Segments = %v", ex.Segments)
	}
}

func TestOpenAIFold(t *testing.T) {
	o := &OpenAI{}
	conv := []Message{{Role: RoleUser, Content: "what is 2+2"}}
	ex := &Exchange{
		Assistant: Message{
			Role:      RoleAssistant,
			ToolCalls: []ToolCall{{ID: "call_1", Name: "add", Arguments: `{"a":1}`}},
		},
		Calls: []ToolCall{{ID: "call_1", Name: "add", Args: map[string]any{"a": float64(1)}}},
	}
	results := []ToolResult{{Call: ex.Calls[0], Content: `{"result": 4}`}}

	got := o.Fold(conv, ex, results)

	if len(got) != 3 {
		t.Fatalf("conversation = %d turns, want 3", len(got))
	}
	if got[1].Role != RoleAssistant || len(got[1].ToolCalls) != 1 {
		t.Errorf("turn 1 = %+v, want assistant turn with tool calls", got[1])
	}
	if got[2].Role != RoleTool || got[2].ToolCallID != "call_1" || got[2].Content != `{"result": 4}` {
		t.Errorf("turn 2 = %+v, want tool turn paired to call_1", got[2])
	}
}

func TestOpenAIMessageConversion(t *testing.T) {
	msg := Message{
		Role:      RoleAssistant,
		Content:   "thinking",
		ToolCalls: []ToolCall{{ID: "call_9", Name: "add", Arguments: `{"a":1}`}},
	}
	wire := messageToOpenAI(msg)

	if wire.Role != RoleAssistant || wire.Content != "thinking" {
		t.Errorf("wire = %+v", wire)
	}
	if len(wire.ToolCalls) != 1 || wire.ToolCalls[0].Type != ai.ToolTypeFunction {
		t.Fatalf("ToolCalls = %+v", wire.ToolCalls)
	}
	if wire.ToolCalls[0].Function.Name != "add" || wire.ToolCalls[0].ID != "call_9" {
		t.Errorf("call = %+v", wire.ToolCalls[0])
	}
}

func TestOpenAIResultAnnotation(t *testing.T) {
	o := &OpenAI{}
	res := ToolResult{Call: ToolCall{Name: "add"}, Content: `{"result": 4}`}

	note := o.ResultAnnotation(res)
	if !strings.Contains(note, "add") || !strings.Contains(note, `{"result": 4}`) {
		t.Errorf("annotation = %q", note)
	}

	long := ToolResult{Call: ToolCall{Name: "blob"}, Content: strings.Repeat("x", 500)}
	if note := o.ResultAnnotation(long); len(note) > 250 {
		t.Errorf("annotation not truncated, len = %d", len(note))
	}
}
