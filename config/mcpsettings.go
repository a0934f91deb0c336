package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MCPSettingsFile is the on-disk name of the tool server configuration.
// A "@"-prefixed copy, when present, is the user's private file and takes
// precedence for both loads and saves.
const MCPSettingsFile = "mcp_settings.json"

// ServerConfig describes one configured tool server. Only Disabled,
// AutoApprove, AlwaysAllow and Description are consumed by the core;
// Command/Args/Env are carried through untouched for round-tripping.
type ServerConfig struct {
	Command     string            `json:"command,omitempty"`
	Args        []string          `json:"args,omitempty"`
	Env         map[string]string `json:"env,omitempty"`
	Disabled    bool              `json:"disabled"`
	AutoApprove []string          `json:"autoApprove,omitempty"`
	AlwaysAllow []string          `json:"alwaysAllow,omitempty"`
	Description string            `json:"description,omitempty"`
}

// MCPSettings holds the mcpServers mapping in document order. Tool
// enumeration order is defined as the order servers appear in the JSON file,
// so the default map type is not enough here.
type MCPSettings struct {
	order   []string
	servers map[string]*ServerConfig
}

func NewMCPSettings() *MCPSettings {
	return &MCPSettings{servers: make(map[string]*ServerConfig)}
}

// ServerNames returns the configured server names in file order.
func (s *MCPSettings) ServerNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Server returns the config for name, or nil if not configured.
func (s *MCPSettings) Server(name string) *ServerConfig {
	return s.servers[name]
}

// HasServer reports whether name is present in the configuration.
func (s *MCPSettings) HasServer(name string) bool {
	_, ok := s.servers[name]
	return ok
}

// SetServer adds or replaces a server config, preserving existing order.
func (s *MCPSettings) SetServer(name string, cfg *ServerConfig) {
	if s.servers == nil {
		s.servers = make(map[string]*ServerConfig)
	}
	if _, exists := s.servers[name]; !exists {
		s.order = append(s.order, name)
	}
	s.servers[name] = cfg
}

// SetDisabled toggles a server. Unknown names are ignored.
func (s *MCPSettings) SetDisabled(name string, disabled bool) {
	if cfg, ok := s.servers[name]; ok {
		cfg.Disabled = disabled
	}
}

func (s *MCPSettings) UnmarshalJSON(data []byte) error {
	s.order = nil
	s.servers = make(map[string]*ServerConfig)

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return err
	}

	raw, ok := outer["mcpServers"]
	if !ok {
		return nil
	}

	// Walk the object token by token so server order follows the document.
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mcpServers must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token in mcpServers: %v", keyTok)
		}

		var cfg ServerConfig
		if err := dec.Decode(&cfg); err != nil {
			return fmt.Errorf("failed to decode server %q: %w", name, err)
		}

		s.order = append(s.order, name)
		s.servers[name] = &cfg
	}

	return nil
}

func (s *MCPSettings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"mcpServers":{`)
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.servers[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString("}}")

	// Re-indent for readability on disk
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return buf.Bytes(), nil
	}
	return out.Bytes(), nil
}

// LoadMCPSettings loads tool server configuration from the data directory.
// The private "@"-prefixed file is preferred; a parse failure there falls
// back to the regular file. A missing file is not an error - it yields an
// empty configuration, which downstream turns into the fallback tool list.
func LoadMCPSettings(dataDir string) (*MCPSettings, error) {
	settings := NewMCPSettings()

	privatePath := filepath.Join(dataDir, "@"+MCPSettingsFile)
	regularPath := filepath.Join(dataDir, MCPSettingsFile)

	for _, path := range []string{privatePath, regularPath} {
		if !FileExists(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if DebugLog != nil {
				DebugLog.Printf("[MCPSettings] read %s failed: %v", path, err)
			}
			continue
		}
		if err := json.Unmarshal(data, settings); err != nil {
			if DebugLog != nil {
				DebugLog.Printf("[MCPSettings] parse %s failed: %v", path, err)
			}
			settings = NewMCPSettings()
			continue
		}
		return settings, nil
	}

	return settings, nil
}

// SaveMCPSettings writes the configuration back, preferring the private
// "@"-prefixed file when it exists.
func SaveMCPSettings(dataDir string, settings *MCPSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal MCP settings: %w", err)
	}

	privatePath := filepath.Join(dataDir, "@"+MCPSettingsFile)
	if FileExists(privatePath) {
		if err := os.WriteFile(privatePath, data, 0600); err == nil {
			return nil
		}
	}

	regularPath := filepath.Join(dataDir, MCPSettingsFile)
	if err := os.WriteFile(regularPath, data, 0600); err != nil {
		return fmt.Errorf("failed to save MCP settings: %w", err)
	}
	return nil
}

// CreateDefaultMCPSettings writes the starter configuration used on first
// run: Brave web search plus the Firecrawl scrape/crawl server.
func CreateDefaultMCPSettings(dataDir string) (*MCPSettings, error) {
	settings := NewMCPSettings()
	settings.SetServer("brave-search", &ServerConfig{
		Command:     "node",
		Args:        []string{"path/to/brave-search/index.js"},
		Env:         map[string]string{"BRAVE_API_KEY": "your-api-key-here"},
		AutoApprove: []string{"search"},
		Description: "Web search using Brave Search API",
	})
	settings.SetServer("firecrawl-mcp", &ServerConfig{
		Command:     "node",
		Args:        []string{"path/to/firecrawl/index.js"},
		AutoApprove: []string{"firecrawl_scrape", "firecrawl_crawl", "firecrawl_search", "firecrawl_map", "firecrawl_deep_research"},
		Description: "Web scraping and crawling",
	})

	if err := SaveMCPSettings(dataDir, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// DefaultServerDescriptions are the fallback per-server descriptions used
// when a server has no description of its own.
var DefaultServerDescriptions = map[string]string{
	"brave-search":      "Web search using Brave Search API",
	"perplexity-mcp":    "AI-powered search and documentation retrieval",
	"tavily-mcp":        "AI-powered web search and content extraction",
	"Serper-search-mcp": "Google search and deep research capabilities",
	"fetch":             "Web content fetching",
	"github":            "GitHub integration",
	"Memory Graph":      "Knowledge graph for memory storage",
	"mcp-reasoner":      "Advanced reasoning for complex tasks",
	"firecrawl-mcp":     "Web scraping and crawling",
}

// ServerDescriptions returns per-server descriptions, with configured
// descriptions overriding the built-in defaults.
func (s *MCPSettings) ServerDescriptions() map[string]string {
	descriptions := make(map[string]string, len(DefaultServerDescriptions))
	for name, desc := range DefaultServerDescriptions {
		descriptions[name] = desc
	}
	for name, cfg := range s.servers {
		if cfg.Description != "" {
			descriptions[name] = cfg.Description
		}
	}
	return descriptions
}
