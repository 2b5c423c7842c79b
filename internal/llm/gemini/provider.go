package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/omkarsat/lumi-agent/internal/config"
	"github.com/omkarsat/lumi-agent/internal/llm"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Chat runs one round-trip through the Gemini SDK with the declared tools
func (p *Provider) Chat(ctx context.Context, req llm.Request, model string) (*llm.Completion, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}
	if model == "" {
		model = p.DefaultModel()
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("empty message list")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	var temperature float32 = 0.3
	generativeModel.Temperature = &temperature
	generativeModel.Tools = buildTools(req.Tools)

	history, last, err := splitMessages(req.Messages, generativeModel)
	if err != nil {
		return nil, err
	}

	session := generativeModel.StartChat()
	session.History = history

	start := time.Now()
	resp, err := session.SendMessage(ctx, last...)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from gemini")
	}

	completion := &llm.Completion{
		Model:     model,
		LatencyMs: latency,
	}
	if resp.UsageMetadata != nil {
		completion.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			completion.Text += string(v)
		case genai.FunctionCall:
			if completion.ToolCall == nil {
				completion.ToolCall = &llm.ToolCall{
					Name:      v.Name,
					Arguments: llm.StringArgs(v.Args),
				}
			}
		}
	}

	return completion, nil
}

// splitMessages maps the generic message list onto the SDK's chat shape:
// the system prompt becomes the system instruction, the final message is
// sent, and everything between is history.
func splitMessages(messages []llm.Message, model *genai.GenerativeModel) ([]*genai.Content, []genai.Part, error) {
	if messages[0].Role == llm.RoleSystem {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(messages[0].Content)},
		}
		messages = messages[1:]
	}
	if len(messages) == 0 {
		return nil, nil, fmt.Errorf("no user message to send")
	}

	var history []*genai.Content
	for _, m := range messages[:len(messages)-1] {
		content, err := toContent(m)
		if err != nil {
			return nil, nil, err
		}
		history = append(history, content)
	}

	last, err := toContent(messages[len(messages)-1])
	if err != nil {
		return nil, nil, err
	}
	return history, last.Parts, nil
}

func toContent(m llm.Message) (*genai.Content, error) {
	switch m.Role {
	case llm.RoleUser:
		return &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}}, nil
	case llm.RoleAssistant:
		if m.ToolCall != nil {
			args := make(map[string]any, len(m.ToolCall.Arguments))
			for k, v := range m.ToolCall.Arguments {
				args[k] = v
			}
			return &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.FunctionCall{Name: m.ToolCall.Name, Args: args}},
			}, nil
		}
		return &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}}, nil
	case llm.RoleTool:
		return &genai.Content{
			Role: "function",
			Parts: []genai.Part{genai.FunctionResponse{
				Name:     m.ToolName,
				Response: map[string]any{"result": m.Content},
			}},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported message role: %s", m.Role)
	}
}

func buildTools(tools []llm.ToolDef) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		properties := make(map[string]*genai.Schema, len(t.Parameters))
		var required []string
		for _, param := range t.Parameters {
			properties[param.Name] = &genai.Schema{
				Type:        genai.TypeString,
				Description: param.Description,
			}
			if param.Required {
				required = append(required, param.Name)
			}
		}
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   required,
			},
		})
	}

	return []*genai.Tool{{FunctionDeclarations: declarations}}
}
