// Package agent runs the conversational decision loop: per user turn the
// model either answers directly or calls exactly one registered tool, up
// to a bounded number of round-trips.
package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/llm"
)

const defaultMaxIterations = 3

// fallbackApology is returned when the model cannot even phrase its own
// failure message.
const fallbackApology = "I'm sorry, I'm having trouble processing your request right now. Please try again in a moment."

// Orchestrator drives one conversation turn through the model and tools
type Orchestrator struct {
	router   *llm.Router
	registry *Registry
	sessions domain.SessionStore

	maxIterations int
}

// NewOrchestrator builds the decision loop over a provider router, tool
// registry, and session store. maxIterations bounds model round-trips per
// user turn.
func NewOrchestrator(router *llm.Router, registry *Registry, sessions domain.SessionStore, maxIterations int) *Orchestrator {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &Orchestrator{
		router:        router,
		registry:      registry,
		sessions:      sessions,
		maxIterations: maxIterations,
	}
}

// ProcessMessage handles one user turn and always returns reply text.
// The user turn is recorded before the model runs, so history reflects it
// even when the turn fails; the agent reply is recorded on the way out.
func (o *Orchestrator) ProcessMessage(ctx context.Context, sessionID, text string) string {
	o.sessions.Append(sessionID, domain.RoleUser, text)

	reply := o.run(ctx, sessionID, text)

	o.sessions.Append(sessionID, domain.RoleAgent, reply)
	return reply
}

func (o *Orchestrator) run(ctx context.Context, sessionID, text string) string {
	provider, err := o.router.GetProvider("")
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("no usable llm provider")
		return fallbackApology
	}

	messages := o.buildContext(sessionID)

	for i := 0; i < o.maxIterations; i++ {
		completion, err := provider.Chat(ctx, llm.Request{
			Messages: messages,
			Tools:    o.registry.Defs(),
		}, "")
		if err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Int("iteration", i).Msg("model round-trip failed")
			return o.apologize(ctx, provider, text, err)
		}

		if completion.ToolCall == nil {
			return completion.Text
		}

		call := completion.ToolCall
		result, ok := o.registry.Dispatch(ctx, call.Name, call.Arguments)
		if !ok {
			log.Warn().Str("session_id", sessionID).Str("tool", call.Name).Msg("model requested unknown tool")
			result = fmt.Sprintf("Unknown tool: %s", call.Name)
		}

		log.Debug().
			Str("session_id", sessionID).
			Str("tool", call.Name).
			Int("iteration", i).
			Msg("tool executed")

		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, ToolCall: call},
			llm.Message{Role: llm.RoleTool, Content: result, ToolCallID: call.ID, ToolName: call.Name},
		)
	}

	// Round-trip budget exhausted: one last call with no tools so the
	// model must answer in text from what it has gathered.
	completion, err := provider.Chat(ctx, llm.Request{Messages: messages}, "")
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("forced-stop completion failed")
		return o.apologize(ctx, provider, text, err)
	}
	return completion.Text
}

// buildContext assembles the model input: system prompt followed by the
// full session history, whose last turn is the current user message.
func (o *Orchestrator) buildContext(sessionID string) []llm.Message {
	history := o.sessions.History(sessionID)

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == domain.RoleAgent {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Text})
	}
	return messages
}

// apologize asks the model to phrase an empathetic failure message for the
// user. If that call also fails, a static apology goes out instead.
func (o *Orchestrator) apologize(ctx context.Context, provider llm.Provider, userText string, cause error) string {
	completion, err := provider.Chat(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a support assistant. Something went wrong while handling the customer's message. Apologize briefly and empathetically and suggest they try again. Do not mention internal errors or technical details."},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Customer message: %s\nInternal error: %v", userText, cause)},
		},
	}, "")
	if err != nil || completion.Text == "" {
		return fallbackApology
	}
	return completion.Text
}
