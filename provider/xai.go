package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// XAIProvider talks to xAI's Grok models through their OpenAI-compatible
// API using the official OpenAI Go SDK.
type XAIProvider struct {
	client openai.Client
	model  string
}

// NewXAIProvider creates an xAI provider instance.
//
// Returns an error if the API key is missing. baseURL defaults to
// "https://api.x.ai/v1" and model to the first entry of DefaultModels.
func NewXAIProvider(baseURL, apiKey, model string) (*XAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.x.ai/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("xAI API key is required")
	}
	if model == "" {
		model = DefaultModels[0]
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &XAIProvider{
		client: client,
		model:  model,
	}, nil
}

// Complete implements Provider.Complete with a single non-streaming call.
func (p *XAIProvider) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	params := openai.ChatCompletionNewParams{
		Messages: convertMessages(req.Messages),
		Model:    shared.ChatModel(model),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.ReasoningEffort != "" {
		params.ReasoningEffort = shared.ReasoningEffort(req.ReasoningEffort)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("xAI completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("xAI returned no choices")
	}

	msg := resp.Choices[0].Message
	return &Completion{
		Content:   msg.Content,
		Reasoning: extractReasoningContent(msg),
	}, nil
}

// extractReasoningContent pulls the reasoning trace Grok reasoning models
// return in the non-standard "reasoning_content" field of the message.
func extractReasoningContent(msg openai.ChatCompletionMessage) string {
	field, ok := msg.JSON.ExtraFields["reasoning_content"]
	if !ok {
		return ""
	}
	var reasoning string
	if err := json.Unmarshal([]byte(field.Raw()), &reasoning); err != nil {
		return ""
	}
	return reasoning
}

func convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			result = append(result, openai.SystemMessage(m.Content))
		case "assistant":
			result = append(result, openai.AssistantMessage(m.Content))
		default:
			result = append(result, openai.UserMessage(m.Content))
		}
	}
	return result
}

// ListModels implements Provider.ListModels. When the API call fails the
// caller still needs something to offer, so DefaultModels is returned
// alongside the error.
func (p *XAIProvider) ListModels(ctx context.Context) ([]string, error) {
	page, err := p.client.Models.List(ctx)
	if err != nil {
		return append([]string(nil), DefaultModels...), fmt.Errorf("failed to list xAI models: %w", err)
	}

	names := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		names = append(names, m.ID)
	}
	if len(names) == 0 {
		return append([]string(nil), DefaultModels...), nil
	}
	return names, nil
}

// Model implements Provider.Model.
func (p *XAIProvider) Model() string {
	return p.model
}

// SetModel implements Provider.SetModel.
func (p *XAIProvider) SetModel(model string) {
	p.model = model
}
