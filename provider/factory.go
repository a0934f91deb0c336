package provider

import "fmt"

// NewProvider creates a provider based on configuration. It dispatches to
// the matching constructor for the Config.Type field and returns an error
// for unknown types or when a constructor fails.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Type {
	case ProviderTypeXAI:
		return NewXAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider ID to a ProviderType.
// Unknown IDs pass through as-is so the factory reports them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "xai", "grok", "":
		return ProviderTypeXAI
	case "anthropic":
		return ProviderTypeAnthropic
	case "ollama":
		return ProviderTypeOllama
	default:
		return ProviderType(id)
	}
}
