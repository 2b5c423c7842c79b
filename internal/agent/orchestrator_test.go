package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/llm"
	"github.com/omkarsat/lumi-agent/internal/session"
)

func newTestOrchestrator(t *testing.T, provider llm.Provider) (*Orchestrator, *session.Store) {
	t.Helper()

	router := llm.NewRouter("scripted")
	router.RegisterProvider(provider)

	registry, _ := newTestRegistry(t)
	sessions := session.NewStore(20)
	return NewOrchestrator(router, registry, sessions, 3), sessions
}

func TestProcessMessage_DirectAnswer(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptStep{
		textStep("Hello! How can I help with your Apple laptop?"),
	}}
	o, sessions := newTestOrchestrator(t, provider)

	reply := o.ProcessMessage(context.Background(), "s1", "hi there")

	assert.Equal(t, "Hello! How can I help with your Apple laptop?", reply)

	history := sessions.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "hi there", history[0].Text)
	assert.Equal(t, domain.RoleAgent, history[1].Role)
	assert.Equal(t, reply, history[1].Text)
}

func TestProcessMessage_ToolRoundTrip(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptStep{
		toolStep(ToolSearchKnowledge, map[string]string{"query": "battery drains"}),
		textStep("Your battery drains because of background applications."),
	}}
	o, _ := newTestOrchestrator(t, provider)

	reply := o.ProcessMessage(context.Background(), "s1", "why does my battery drain?")

	assert.Equal(t, "Your battery drains because of background applications.", reply)
	require.Len(t, provider.requests, 2)

	// First round-trip declares the tools; the second carries the tool
	// exchange back to the model.
	assert.Len(t, provider.requests[0].Tools, 3)
	second := provider.requests[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, llm.RoleTool, last.Role)
	assert.Equal(t, ToolSearchKnowledge, last.ToolName)
	assert.Contains(t, last.Content, "battery drains quickly")
}

func TestProcessMessage_ForcedStopAfterIterationCap(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptStep{
		toolStep(ToolSearchKnowledge, map[string]string{"query": "battery"}),
		toolStep(ToolSearchKnowledge, map[string]string{"query": "overheating"}),
		toolStep(ToolSearchKnowledge, map[string]string{"query": "keyboard"}),
		textStep("Here is what I found so far."),
	}}
	o, _ := newTestOrchestrator(t, provider)

	reply := o.ProcessMessage(context.Background(), "s1", "tell me everything")

	assert.Equal(t, "Here is what I found so far.", reply)
	require.Len(t, provider.requests, 4)

	// The wrap-up round-trip offers no tools, forcing a text answer.
	assert.Empty(t, provider.requests[3].Tools)
}

func TestProcessMessage_ModelFailureApologizes(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptStep{
		errStep(errors.New("upstream timeout")),
		textStep("I'm sorry, something went wrong on our side. Please try again."),
	}}
	o, sessions := newTestOrchestrator(t, provider)

	reply := o.ProcessMessage(context.Background(), "s1", "hello?")

	assert.Equal(t, "I'm sorry, something went wrong on our side. Please try again.", reply)

	history := sessions.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleAgent, history[1].Role)
}

func TestProcessMessage_ApologyFallback(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptStep{
		errStep(errors.New("upstream timeout")),
		errStep(errors.New("still down")),
	}}
	o, _ := newTestOrchestrator(t, provider)

	reply := o.ProcessMessage(context.Background(), "s1", "hello?")

	assert.Equal(t, fallbackApology, reply)
}

func TestProcessMessage_UnknownToolReported(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptStep{
		toolStep("time_travel", nil),
		textStep("I cannot do that, but I can help with your laptop."),
	}}
	o, _ := newTestOrchestrator(t, provider)

	reply := o.ProcessMessage(context.Background(), "s1", "go back in time")

	assert.Equal(t, "I cannot do that, but I can help with your laptop.", reply)

	second := provider.requests[1].Messages
	last := second[len(second)-1]
	assert.Equal(t, "Unknown tool: time_travel", last.Content)
}

func TestProcessMessage_HistoryCarriesAcrossTurns(t *testing.T) {
	provider := &scriptedProvider{steps: []scriptStep{
		textStep("Hi Sarah!"),
		textStep("Your battery can be checked in System Settings."),
	}}
	o, _ := newTestOrchestrator(t, provider)

	o.ProcessMessage(context.Background(), "s1", "I'm Sarah")
	o.ProcessMessage(context.Background(), "s1", "battery advice?")

	require.Len(t, provider.requests, 2)
	second := provider.requests[1].Messages

	// system + first exchange + new user turn
	require.Len(t, second, 4)
	assert.Equal(t, llm.RoleSystem, second[0].Role)
	assert.Equal(t, "I'm Sarah", second[1].Content)
	assert.Equal(t, "Hi Sarah!", second[2].Content)
	assert.Equal(t, "battery advice?", second[3].Content)
}

func TestProcessMessage_NoProviderConfigured(t *testing.T) {
	router := llm.NewRouter("missing")
	registry, _ := newTestRegistry(t)
	o := NewOrchestrator(router, registry, session.NewStore(20), 3)

	reply := o.ProcessMessage(context.Background(), "s1", "hello")

	assert.Equal(t, fallbackApology, reply)
}
