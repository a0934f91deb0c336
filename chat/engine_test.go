package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"grokchat/config"
	"grokchat/provider"
	"grokchat/search"
	"grokchat/tools"
)

type fakeProvider struct {
	completion *provider.Completion
	err        error
	lastReq    provider.CompletionRequest
}

func (f *fakeProvider) Complete(_ context.Context, req provider.CompletionRequest) (*provider.Completion, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.completion, nil
}

func (f *fakeProvider) ListModels(context.Context) ([]string, error) { return nil, nil }
func (f *fakeProvider) Model() string                                { return "grok-3-mini-beta" }
func (f *fakeProvider) SetModel(string)                              {}

func newTestEngine(p provider.Provider, settings *config.MCPSettings, status StatusFunc) *Engine {
	registry := tools.NewRegistry(settings)
	selector := tools.NewSelector(registry, nil)
	executor := tools.NewExecutor(search.NewClient(""), "us", 1)
	return NewEngine(p, selector, executor, search.NewClient(""), search.Options{MaxRetries: 1}, status)
}

func TestRunWithoutProvider(t *testing.T) {
	var failed bool
	engine := newTestEngine(nil, nil, func(state TurnState, _ string) {
		if state == StateFailed {
			failed = true
		}
	})

	result := engine.Run(context.Background(), TurnRequest{Query: "hello"})
	if result.Content != missingKeyMessage {
		t.Errorf("content = %q", result.Content)
	}
	if result.Err == nil {
		t.Error("expected a non-nil Err")
	}
	if !failed {
		t.Error("StateFailed was never reported")
	}
}

func TestRunProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	fake := &fakeProvider{err: cause}
	engine := newTestEngine(fake, nil, nil)

	result := engine.Run(context.Background(), TurnRequest{Query: "hello"})
	if !strings.HasPrefix(result.Content, "Sorry, I encountered an error while processing your request:") {
		t.Errorf("content = %q", result.Content)
	}
	if !errors.Is(result.Err, cause) {
		t.Errorf("Err = %v, want %v", result.Err, cause)
	}
}

func TestRunSuccess(t *testing.T) {
	fake := &fakeProvider{completion: &provider.Completion{
		Content:   "The answer is 42.",
		Reasoning: "worked it out",
	}}

	var states []TurnState
	engine := newTestEngine(fake, nil, func(state TurnState, _ string) {
		states = append(states, state)
	})

	result := engine.Run(context.Background(), TurnRequest{
		Query:           "what is the answer",
		Model:           "grok-3-mini-beta",
		ReasoningEffort: "low",
		History: []provider.Message{
			{Role: "user", Content: "earlier question"},
			{Role: "assistant", Content: "earlier answer"},
		},
	})

	if result.Err != nil {
		t.Fatalf("Run failed: %v", result.Err)
	}
	if result.Content != "The answer is 42." {
		t.Errorf("content = %q", result.Content)
	}
	if result.Reasoning != "worked it out" {
		t.Errorf("reasoning = %q", result.Reasoning)
	}

	// system prompt, two history entries, then the assembled user prompt.
	if len(fake.lastReq.Messages) != 4 {
		t.Fatalf("sent %d messages", len(fake.lastReq.Messages))
	}
	if fake.lastReq.Messages[0].Role != "system" {
		t.Errorf("first role = %q", fake.lastReq.Messages[0].Role)
	}
	if fake.lastReq.Messages[1].Content != "earlier question" {
		t.Errorf("history not preserved: %q", fake.lastReq.Messages[1].Content)
	}
	last := fake.lastReq.Messages[3]
	if last.Role != "user" || !strings.Contains(last.Content, "what is the answer") {
		t.Errorf("user prompt = %q", last.Content)
	}
	if fake.lastReq.Temperature != 0.3 {
		t.Errorf("temperature = %v", fake.lastReq.Temperature)
	}
	if fake.lastReq.ReasoningEffort != "low" {
		t.Errorf("reasoning effort = %q", fake.lastReq.ReasoningEffort)
	}

	if len(states) == 0 || states[len(states)-1] != StateDone {
		t.Errorf("states = %v", states)
	}
}

func TestRunAppendsReasonerNote(t *testing.T) {
	fake := &fakeProvider{completion: &provider.Completion{Content: "Answer."}}
	settings := config.NewMCPSettings()
	settings.SetServer("mcp-reasoner", &config.ServerConfig{
		AutoApprove: []string{"solve-equation", "break-down-task"},
	})
	engine := newTestEngine(fake, settings, nil)

	// Tool mode with search off selects the reasoning tool, which triggers
	// the post-processing reasoner note.
	result := engine.Run(context.Background(), TurnRequest{
		Query:      "solve this equation for me",
		MCPEnabled: true,
	})
	if result.Err != nil {
		t.Fatalf("Run failed: %v", result.Err)
	}
	if len(result.ToolsUsed) == 0 {
		t.Fatal("no tools selected")
	}
	if !strings.Contains(result.Content, "Reasoning is provided in this separate section") {
		t.Errorf("reasoner note missing from %q", result.Content)
	}
}
