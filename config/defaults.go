package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/grokchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider:        "xai",
		ModelName:       "grok-3-mini-beta",
		ReasoningEffort: "medium",
		ShowReasoning:   false,
		EnableWebSearch: true,
		EnableMCP:       false,
		Search: SearchConfig{
			Country:    "us",
			MaxResults: 10,
			MaxRetries: 3,
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Grokchat System Configuration
# Location: ~/.config/grokchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where conversations and user config are stored
data_directory = "~/.local/share/grokchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# Grokchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# LLM provider: "xai", "anthropic" or "ollama"
provider = "xai"

# Model used for completions
model_name = "grok-3-mini-beta"

# Reasoning effort passed to the model: "low", "medium" or "high"
reasoning_effort = "medium"

# Show the model's reasoning text below assistant replies
show_reasoning = false

# Augment prompts with Brave web search results
enable_web_search = true

# Enable tool integrations configured in mcp_settings.json
enable_mcp = false

# Ollama server URL (only used when provider = "ollama")
# ollama_host = "http://localhost:11434"

# Credential storage: "plaintext" (default) or "ssh_key"
# security_method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"

[search]
# Country code for localized search results
country = "us"

# Upper bound on results per query (API limit is 50)
max_results = 10

# Retry attempts for transient search failures
max_retries = 3
`
}
