package agent

import (
	"context"
	"sync"

	"github.com/omkarsat/lumi-agent/internal/domain"
	"github.com/omkarsat/lumi-agent/internal/llm"
)

// scriptedProvider replays a fixed sequence of completions and errors,
// recording every request it receives.
type scriptedProvider struct {
	steps    []scriptStep
	requests []llm.Request

	mu sync.Mutex
}

type scriptStep struct {
	completion *llm.Completion
	err        error
}

func (p *scriptedProvider) Name() string              { return "scripted" }
func (p *scriptedProvider) AvailableModels() []string { return []string{"scripted-1"} }
func (p *scriptedProvider) DefaultModel() string      { return "scripted-1" }
func (p *scriptedProvider) IsConfigured() bool        { return true }

func (p *scriptedProvider) Chat(ctx context.Context, req llm.Request, model string) (*llm.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if len(p.steps) == 0 {
		return &llm.Completion{Text: "out of script"}, nil
	}
	step := p.steps[0]
	p.steps = p.steps[1:]
	return step.completion, step.err
}

func textStep(text string) scriptStep {
	return scriptStep{completion: &llm.Completion{Text: text}}
}

func toolStep(name string, args map[string]string) scriptStep {
	return scriptStep{completion: &llm.Completion{ToolCall: &llm.ToolCall{ID: "call-1", Name: name, Arguments: args}}}
}

func errStep(err error) scriptStep {
	return scriptStep{err: err}
}

// memoryRepo is an in-memory domain.RecordRepository for registry tests
type memoryRepo struct {
	mu      sync.Mutex
	records map[string]*domain.SupportRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: make(map[string]*domain.SupportRecord)}
}

func (r *memoryRepo) Create(ctx context.Context, record *domain.SupportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.records[record.ID] = &cp
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (*domain.SupportRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *memoryRepo) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[id]
	return ok, nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id string, status domain.RecordStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	rec.Status = status
	return nil
}

func (r *memoryRepo) Ping(ctx context.Context) error { return nil }
