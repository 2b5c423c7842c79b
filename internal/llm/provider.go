package llm

import "context"

// Role identifies the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the working conversation context
type Message struct {
	Role    Role
	Content string

	// Set on assistant messages that requested a tool invocation.
	ToolCall *ToolCall

	// Set on tool messages: which call this result answers.
	ToolCallID string
	ToolName   string
}

// ToolCall is a model request to invoke a named tool with arguments
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]string
}

// ToolDef declares a callable tool: a name and named string parameters
type ToolDef struct {
	Name        string
	Description string
	Parameters  []ParamDef
}

// ParamDef describes one string argument of a tool
type ParamDef struct {
	Name        string
	Description string
	Required    bool
}

// Request contains everything a provider needs for one model round-trip
type Request struct {
	Messages []Message
	Tools    []ToolDef
}

// Completion is the model's answer: either final text or one tool call
type Completion struct {
	Text       string
	ToolCall   *ToolCall
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat runs one model round-trip over the messages with the declared tools
	Chat(ctx context.Context, req Request, model string) (*Completion, error)
}
