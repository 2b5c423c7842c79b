package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/omkarsat/lumi-agent/internal/corpus"
	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/extract"
	"github.com/omkarsat/lumi-agent/internal/llm"
	"github.com/omkarsat/lumi-agent/internal/service"
)

// Tool names form a closed set; the registry dispatches through a single
// lookup so the callable surface stays statically inspectable.
const (
	ToolSearchKnowledge = "search_knowledge"
	ToolCreateRecord    = "create_record"
	ToolRetrieveRecord  = "retrieve_record"
)

// Handler executes one tool call. Every outcome is a string: validation
// failures and lookup misses are ordinary results, and infrastructure
// errors are converted to user-safe text at this boundary.
type Handler func(ctx context.Context, args map[string]string) string

// Registry maps the closed set of tool names to their schemas and handlers
type Registry struct {
	order []string
	tools map[string]registeredTool
}

type registeredTool struct {
	def     llm.ToolDef
	handler Handler
}

// NewRegistry wires the three tools over the retriever and record service
func NewRegistry(retriever *corpus.Retriever, records *service.RecordService) *Registry {
	r := &Registry{tools: make(map[string]registeredTool)}

	r.register(llm.ToolDef{
		Name:        ToolSearchKnowledge,
		Description: "Search the Apple laptop FAQ for relevant information",
		Parameters: []llm.ParamDef{
			{Name: "query", Description: "Search query for the FAQ", Required: true},
		},
	}, func(_ context.Context, args map[string]string) string {
		return retriever.Search(args["query"])
	})

	r.register(llm.ToolDef{
		Name:        ToolCreateRecord,
		Description: "Create a new support record from the customer's message including name, phone, email, and issue details",
		Parameters: []llm.ParamDef{
			{Name: "record_data", Description: "Complete complaint information including name, phone, email, and details", Required: true},
		},
	}, func(ctx context.Context, args map[string]string) string {
		return createRecord(ctx, records, args["record_data"])
	})

	r.register(llm.ToolDef{
		Name:        ToolRetrieveRecord,
		Description: "Retrieve support record details by its 8-character ID",
		Parameters: []llm.ParamDef{
			{Name: "identifier", Description: "Record ID to retrieve", Required: true},
		},
	}, func(ctx context.Context, args map[string]string) string {
		return retrieveRecord(ctx, records, args["identifier"])
	})

	return r
}

func (r *Registry) register(def llm.ToolDef, handler Handler) {
	r.order = append(r.order, def.Name)
	r.tools[def.Name] = registeredTool{def: def, handler: handler}
}

// Defs returns the tool schemas in registration order
func (r *Registry) Defs() []llm.ToolDef {
	defs := make([]llm.ToolDef, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Dispatch runs the named tool. ok is false for a name outside the
// registered set.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]string) (result string, ok bool) {
	t, ok := r.tools[name]
	if !ok {
		return "", false
	}
	return t.handler(ctx, args), true
}

type recordPayload struct {
	ComplaintID string `json:"complaint_id"`
	Message     string `json:"message,omitempty"`
	Name        string `json:"name"`
	Phone       string `json:"phone_number"`
	Email       string `json:"email"`
	Details     string `json:"complaint_details"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func createRecord(ctx context.Context, records *service.RecordService, data string) string {
	info := extract.All(data)

	rec, err := records.Create(ctx, info)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return verr.Message
		}
		return fmt.Sprintf("Error creating complaint: %v", err)
	}

	payload, _ := json.Marshal(recordPayload{
		ComplaintID: rec.ID,
		Message:     "Complaint created successfully",
		Name:        rec.Name,
		Phone:       rec.Phone,
		Email:       rec.Email,
		Details:     rec.Details,
	})

	return fmt.Sprintf("Complaint successfully created! Your complaint ID is: %s.\n\nJSON_START%sJSON_END", rec.ID, payload)
}

func retrieveRecord(ctx context.Context, records *service.RecordService, id string) string {
	rec, err := records.Retrieve(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return fmt.Sprintf("No complaint found with ID: %s", id)
	}
	if err != nil {
		return fmt.Sprintf("Error retrieving complaint: %v", err)
	}

	created := rec.CreatedAt.Format(time.RFC3339)
	payload, _ := json.Marshal(recordPayload{
		ComplaintID: rec.ID,
		Name:        rec.Name,
		Phone:       rec.Phone,
		Email:       rec.Email,
		Details:     rec.Details,
		Status:      string(rec.Status),
		CreatedAt:   created,
	})

	return fmt.Sprintf(`Complaint Details Found:
ID: %s
Name: %s
Phone: %s
Email: %s
Issue: %s
Status: %s
Created: %s

JSON_START%sJSON_END`,
		rec.ID, rec.Name, rec.Phone, rec.Email, rec.Details, rec.Status, created, payload)
}
