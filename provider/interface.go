// Package provider defines the abstract interface for LLM providers.
//
// The chat engine talks to models through the Provider interface so the rest
// of the application stays provider-agnostic. xAI is the primary backend
// (OpenAI-compatible API); Anthropic and local Ollama servers are also
// supported.
package provider

import "context"

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeXAI       ProviderType = "xai"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOllama    ProviderType = "ollama"
)

// DefaultModels is the model list used when the provider cannot be reached
// or returns an empty catalog.
var DefaultModels = []string{"grok-3-mini-beta", "grok-3-mini-fast-beta"}

// Message is a single chat message in provider-agnostic form.
type Message struct {
	Role    string // "system", "user" or "assistant"
	Content string
}

// CompletionRequest carries everything needed for one model call.
type CompletionRequest struct {
	Model           string
	Messages        []Message
	Temperature     float64
	ReasoningEffort string // "low", "medium" or "high"; empty to omit
}

// Completion is the provider's reply. Reasoning holds the model's separate
// reasoning trace when the backend exposes one, otherwise it is empty.
type Completion struct {
	Content   string
	Reasoning string
}

// Provider is the contract every LLM backend implements.
type Provider interface {
	// Complete sends the request and returns the full reply.
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)

	// ListModels returns the models the backend offers.
	ListModels(ctx context.Context) ([]string, error)

	// Model returns the currently selected model.
	Model() string

	// SetModel changes the model used for subsequent completions.
	SetModel(model string)
}

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
}
