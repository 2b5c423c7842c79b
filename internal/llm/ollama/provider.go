package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/omkarsat/lumi-agent/internal/llm"
)

// Provider implements llm.Provider for Ollama
type Provider struct {
	host         string
	defaultModel string
	client       *http.Client
}

// NewProvider creates a new Ollama provider
func NewProvider(host, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "llama3"
	}
	return &Provider{
		host:         host,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 300 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "ollama"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"llama3",
		"llama3.1",
		"qwen2.5",
		"mistral",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has a host to talk to
func (p *Provider) IsConfigured() bool {
	return p.host != ""
}

type chatMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type toolSpec struct {
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type functionSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Tools    []toolSpec     `json:"tools,omitempty"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content   string     `json:"content"`
		ToolCalls []toolCall `json:"tool_calls"`
	} `json:"message"`
	EvalCount       int `json:"eval_count"`
	PromptEvalCount int `json:"prompt_eval_count"`
}

// Chat runs one round-trip against the Ollama chat endpoint
func (p *Provider) Chat(ctx context.Context, req llm.Request, model string) (*llm.Completion, error) {
	if model == "" {
		model = p.defaultModel
	}

	chatReq := chatRequest{
		Model:    model,
		Messages: buildMessages(req.Messages),
		Tools:    buildTools(req.Tools),
		Stream:   false,
		Options:  map[string]any{"temperature": 0.3},
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	completion := &llm.Completion{
		Text:       chatResp.Message.Content,
		Model:      model,
		TokensUsed: chatResp.EvalCount + chatResp.PromptEvalCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	}

	if calls := chatResp.Message.ToolCalls; len(calls) > 0 {
		completion.ToolCall = &llm.ToolCall{
			Name:      calls[0].Function.Name,
			Arguments: llm.StringArgs(calls[0].Function.Arguments),
		}
	}

	return completion, nil
}

func buildMessages(messages []llm.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		cm := chatMessage{Role: string(m.Role), Content: m.Content}

		if m.Role == llm.RoleAssistant && m.ToolCall != nil {
			args := make(map[string]any, len(m.ToolCall.Arguments))
			for k, v := range m.ToolCall.Arguments {
				args[k] = v
			}
			cm.ToolCalls = []toolCall{{
				Function: functionCall{Name: m.ToolCall.Name, Arguments: args},
			}}
		}

		out = append(out, cm)
	}
	return out
}

func buildTools(tools []llm.ToolDef) []toolSpec {
	out := make([]toolSpec, 0, len(tools))
	for _, t := range tools {
		properties := make(map[string]any, len(t.Parameters))
		var required []string
		for _, param := range t.Parameters {
			properties[param.Name] = map[string]any{
				"type":        "string",
				"description": param.Description,
			}
			if param.Required {
				required = append(required, param.Name)
			}
		}
		out = append(out, toolSpec{
			Type: "function",
			Function: functionSpec{
				Name:        t.Name,
				Description: t.Description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		})
	}
	return out
}
