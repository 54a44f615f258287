package llm

// Conversation roles in the provider-agnostic log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is one tool invocation requested by the model. ID is
// provider-assigned and empty for backends that correlate results
// positionally. Arguments holds the raw payload as the provider sent it,
// Args the decoded form the invoker consumes.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
	Args      map[string]any
}

// Message is one turn in the conversation log. The log is an ordered
// sequence owned by the orchestrator; providers extend it only through
// their Fold method, which returns the new log.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolResult pairs an executed call with the payload the tool host returned.
type ToolResult struct {
	Call    ToolCall
	Content string
}

// Exchange is one parsed model response: the displayable text segments in
// order (including inline decode diagnostics), the successfully decoded
// tool calls, and the raw assistant turn in neutral form.
type Exchange struct {
	Segments  []string
	Calls     []ToolCall
	Assistant Message
}
