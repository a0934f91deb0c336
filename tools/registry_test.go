package tools

import (
	"reflect"
	"testing"

	"grokchat/config"
)

func TestRegistryAvailableTools(t *testing.T) {
	tests := []struct {
		name     string
		settings func() *config.MCPSettings
		want     []string
	}{
		{
			name:     "empty configuration falls back to fixed list",
			settings: config.NewMCPSettings,
			want: []string{
				"search_brave-search",
				"tavily-search_tavily-mcp",
				"get_documentation_perplexity-mcp",
				"firecrawl_scrape_firecrawl-mcp",
				"firecrawl_crawl_firecrawl-mcp",
				"deep-research_Serper-search-mcp",
			},
		},
		{
			name: "explicitly disabled brave is dropped from the fallback",
			settings: func() *config.MCPSettings {
				s := config.NewMCPSettings()
				s.SetServer("brave-search", &config.ServerConfig{Disabled: true})
				return s
			},
			want: []string{
				"tavily-search_tavily-mcp",
				"get_documentation_perplexity-mcp",
				"firecrawl_scrape_firecrawl-mcp",
				"firecrawl_crawl_firecrawl-mcp",
				"deep-research_Serper-search-mcp",
			},
		},
		{
			name: "configured servers in file order, autoApprove then alwaysAllow",
			settings: func() *config.MCPSettings {
				s := config.NewMCPSettings()
				s.SetServer("my-server", &config.ServerConfig{
					AutoApprove: []string{"alpha"},
					AlwaysAllow: []string{"alpha", "beta"},
				})
				s.SetServer("other", &config.ServerConfig{
					AutoApprove: []string{"gamma"},
				})
				return s
			},
			want: []string{"alpha_my-server", "beta_my-server", "gamma_other"},
		},
		{
			name: "disabled configured server contributes nothing",
			settings: func() *config.MCPSettings {
				s := config.NewMCPSettings()
				s.SetServer("on", &config.ServerConfig{AutoApprove: []string{"fn"}})
				s.SetServer("off", &config.ServerConfig{Disabled: true, AutoApprove: []string{"fn"}})
				return s
			},
			want: []string{"fn_on"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry(tt.settings())
			got := registry.AvailableTools()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AvailableTools() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistryDescription(t *testing.T) {
	settings := config.NewMCPSettings()
	settings.SetServer("my-server", &config.ServerConfig{
		AutoApprove: []string{"get_stuff"},
	})
	settings.SetServer("described-mcp", &config.ServerConfig{
		AutoApprove: []string{"fn"},
		Description: "Custom description",
	})
	registry := NewRegistry(settings)

	tests := []struct {
		id   string
		want string
	}{
		{"fn_described-mcp", "Custom description"},
		{"get_stuff_my-server", "Get stuff via My server"},
	}
	for _, tt := range tests {
		if got := registry.Description(tt.id); got != tt.want {
			t.Errorf("Description(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}

	// Built-in table applies under the fallback set.
	fallback := NewRegistry(config.NewMCPSettings())
	if got := fallback.Description("search_brave-search"); got != "Web search using Brave Search API" {
		t.Errorf("fallback Description = %q", got)
	}
}

func TestToolsForServer(t *testing.T) {
	available := []string{
		"search_brave-search",
		"firecrawl_scrape_firecrawl-mcp",
		"firecrawl_crawl_firecrawl-mcp",
	}
	got := ToolsForServer(available, "firecrawl-mcp")
	want := []string{"firecrawl_scrape_firecrawl-mcp", "firecrawl_crawl_firecrawl-mcp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToolsForServer = %v, want %v", got, want)
	}
}
