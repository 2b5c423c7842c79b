package agent

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omkarsat/lumi-agent/internal/config"
	"github.com/omkarsat/lumi-agent/internal/corpus"
	"github.com/omkarsat/lumi-agent/internal/service"
)

func newTestRegistry(t *testing.T) (*Registry, *memoryRepo) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "faq.txt")
	content := "The battery drains quickly when background applications keep the processor busy all day long.\n\n" +
		"Overheating laptops should be placed on a hard flat surface with the vents left unblocked."
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo := newMemoryRepo()
	retriever := corpus.NewRetriever(config.CorpusConfig{Path: path, TopK: 2, MinParagraphLength: 50})
	return NewRegistry(retriever, service.NewRecordService(repo)), repo
}

func TestRegistry_Defs(t *testing.T) {
	registry, _ := newTestRegistry(t)

	defs := registry.Defs()
	require.Len(t, defs, 3)
	assert.Equal(t, ToolSearchKnowledge, defs[0].Name)
	assert.Equal(t, ToolCreateRecord, defs[1].Name)
	assert.Equal(t, ToolRetrieveRecord, defs[2].Name)
}

func TestRegistry_UnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, ok := registry.Dispatch(context.Background(), "drop_tables", nil)
	assert.False(t, ok)
}

func TestRegistry_SearchKnowledge(t *testing.T) {
	registry, _ := newTestRegistry(t)

	result, ok := registry.Dispatch(context.Background(), ToolSearchKnowledge, map[string]string{"query": "battery drains"})
	require.True(t, ok)
	assert.Contains(t, result, "battery drains quickly")

	result, ok = registry.Dispatch(context.Background(), ToolSearchKnowledge, map[string]string{"query": "quantum"})
	require.True(t, ok)
	assert.Equal(t, corpus.NoRelevantInformation, result)
}

func TestRegistry_CreateRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("success emits payload", func(t *testing.T) {
		registry, repo := newTestRegistry(t)

		result, ok := registry.Dispatch(ctx, ToolCreateRecord, map[string]string{
			"record_data": "My name is Sarah Johnson, phone 9876543210, email sarah@example.com. Screen is flickering.",
		})
		require.True(t, ok)
		assert.Contains(t, result, "Complaint successfully created! Your complaint ID is: ")
		assert.Contains(t, result, "JSON_START")
		assert.Contains(t, result, "JSON_END")
		assert.Contains(t, result, `"name":"Sarah Johnson"`)
		assert.Contains(t, result, `"phone_number":"9876543210"`)

		// Exactly one record persisted.
		assert.Len(t, repo.records, 1)
	})

	t.Run("missing fields", func(t *testing.T) {
		registry, repo := newTestRegistry(t)

		result, ok := registry.Dispatch(ctx, ToolCreateRecord, map[string]string{
			"record_data": "my laptop is broken",
		})
		require.True(t, ok)
		assert.Equal(t, "Missing required information: name, phone_number, email. Please provide all details.", result)
		assert.Empty(t, repo.records)
	})

	t.Run("invalid phone", func(t *testing.T) {
		registry, _ := newTestRegistry(t)

		result, ok := registry.Dispatch(ctx, ToolCreateRecord, map[string]string{
			"record_data": "My name is Sarah Johnson, phone 12345, email sarah@example.com. Screen broken.",
		})
		require.True(t, ok)
		assert.Equal(t, "Invalid phone number. Must be 10 digits.", result)
	})
}

func TestRegistry_RetrieveRecord(t *testing.T) {
	ctx := context.Background()
	registry, _ := newTestRegistry(t)

	created, ok := registry.Dispatch(ctx, ToolCreateRecord, map[string]string{
		"record_data": "My name is Sarah Johnson, phone 9876543210, email sarah@example.com. Screen is flickering.",
	})
	require.True(t, ok)

	// Pull the generated ID out of the success message.
	start := strings.Index(created, "ID is: ") + len("ID is: ")
	id := created[start : start+8]

	t.Run("found", func(t *testing.T) {
		result, ok := registry.Dispatch(ctx, ToolRetrieveRecord, map[string]string{"identifier": id})
		require.True(t, ok)
		assert.Contains(t, result, "Complaint Details Found:")
		assert.Contains(t, result, "ID: "+id)
		assert.Contains(t, result, "Status: created")
		assert.Contains(t, result, "JSON_START")
	})

	t.Run("not found", func(t *testing.T) {
		result, ok := registry.Dispatch(ctx, ToolRetrieveRecord, map[string]string{"identifier": "ZZZZZZZZ"})
		require.True(t, ok)
		assert.Equal(t, "No complaint found with ID: ZZZZZZZZ", result)
	})
}
