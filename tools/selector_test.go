package tools

import (
	"errors"
	"reflect"
	"testing"
)

type fakeSource struct {
	tools   []string
	servers []string
}

func (f *fakeSource) AvailableTools() []string   { return f.tools }
func (f *fakeSource) AvailableServers() []string { return f.servers }
func (f *fakeSource) Description(string) string  { return "" }

func fallbackSource() *fakeSource {
	return &fakeSource{
		tools: []string{
			"search_brave-search",
			"tavily-search_tavily-mcp",
			"get_documentation_perplexity-mcp",
			"firecrawl_scrape_firecrawl-mcp",
			"firecrawl_crawl_firecrawl-mcp",
			"deep-research_Serper-search-mcp",
		},
		servers: []string{
			"brave-search",
			"tavily-mcp",
			"perplexity-mcp",
			"firecrawl-mcp",
			"Serper-search-mcp",
		},
	}
}

func TestSelectorSelect(t *testing.T) {
	tests := []struct {
		name      string
		source    *fakeSource
		query     string
		toggles   Toggles
		wantTools []string
		wantUsing bool
		validate  func(t *testing.T, state *SelectionState, statuses []string)
	}{
		{
			name:      "news query adds search then news tool",
			source:    fallbackSource(),
			query:     "what are the latest developments in AI policy today",
			toggles:   Toggles{WebSearchEnabled: true},
			wantTools: []string{"search_brave-search", "tavily-search_tavily-mcp"},
			wantUsing: true,
			validate: func(t *testing.T, state *SelectionState, statuses []string) {
				if len(statuses) < 2 {
					t.Fatalf("expected at least 2 status updates, got %v", statuses)
				}
				if statuses[0] != "Using search tool..." {
					t.Errorf("first status = %q", statuses[0])
				}
				if statuses[1] != "Retrieving latest news..." {
					t.Errorf("second status = %q", statuses[1])
				}
			},
		},
		{
			name:      "explicit URL selects scrape tool and stops",
			source:    fallbackSource(),
			query:     "scrape https://example.com please",
			toggles:   Toggles{WebSearchEnabled: true},
			wantTools: []string{"firecrawl_scrape_firecrawl-mcp"},
			wantUsing: false,
		},
		{
			name:      "crawl intent prefers crawl variant",
			source:    fallbackSource(),
			query:     "crawl the entire site at https://example.com",
			toggles:   Toggles{WebSearchEnabled: true},
			wantTools: []string{"firecrawl_crawl_firecrawl-mcp"},
			wantUsing: false,
		},
		{
			name: "server override picks variant by keyword",
			source: &fakeSource{
				tools: []string{
					"break-down-task_mcp-reasoner",
					"solve-equation_mcp-reasoner",
				},
				servers: []string{"mcp-reasoner"},
			},
			query:     "use mcp-reasoner to solve this equation",
			toggles:   Toggles{WebSearchEnabled: true},
			wantTools: []string{"solve-equation_mcp-reasoner"},
			wantUsing: false,
		},
		{
			name:      "search-like server override keeps classifying",
			source:    fallbackSource(),
			query:     "use brave-search for the latest news about go",
			toggles:   Toggles{WebSearchEnabled: true},
			wantTools: []string{"search_brave-search", "tavily-search_tavily-mcp"},
			wantUsing: true,
		},
		{
			name:      "category override ends selection",
			source:    fallbackSource(),
			query:     "use search to check golang generics",
			toggles:   Toggles{WebSearchEnabled: true},
			wantTools: []string{"search_brave-search"},
			wantUsing: false,
		},
		{
			name:      "documentation intent",
			source:    fallbackSource(),
			query:     "show me the api reference for net/http",
			toggles:   Toggles{WebSearchEnabled: false},
			wantTools: []string{"get_documentation_perplexity-mcp"},
			wantUsing: false,
		},
		{
			name:      "research intent",
			source:    fallbackSource(),
			query:     "do an in-depth analysis of battery chemistry",
			toggles:   Toggles{WebSearchEnabled: false},
			wantTools: []string{"deep-research_Serper-search-mcp"},
			wantUsing: false,
		},
		{
			name:      "fallback forces search tool",
			source:    fallbackSource(),
			query:     "hello there",
			toggles:   Toggles{WebSearchEnabled: true},
			wantTools: []string{"search_brave-search"},
			wantUsing: true,
		},
		{
			name:      "fallback disabled without web search",
			source:    fallbackSource(),
			query:     "hello there",
			toggles:   Toggles{WebSearchEnabled: false},
			wantTools: nil,
			wantUsing: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var statuses []string
			selector := NewSelector(tt.source, func(s string) { statuses = append(statuses, s) })

			state, err := selector.Select(tt.query, tt.toggles)
			if err != nil {
				t.Fatalf("Select returned error: %v", err)
			}
			if !reflect.DeepEqual(state.Tools, tt.wantTools) {
				t.Errorf("Tools = %v, want %v", state.Tools, tt.wantTools)
			}
			if state.UsingSearch != tt.wantUsing {
				t.Errorf("UsingSearch = %v, want %v", state.UsingSearch, tt.wantUsing)
			}
			if tt.validate != nil {
				tt.validate(t, state, statuses)
			}
		})
	}
}

func TestSelectorNoToolsAvailable(t *testing.T) {
	selector := NewSelector(&fakeSource{}, nil)

	state, err := selector.Select("anything", Toggles{WebSearchEnabled: true})
	if !errors.Is(err, ErrNoToolsAvailable) {
		t.Fatalf("expected ErrNoToolsAvailable, got %v", err)
	}
	if len(state.Tools) != 0 {
		t.Errorf("expected no tools, got %v", state.Tools)
	}
}

func TestSelectionStateDedupes(t *testing.T) {
	state := &SelectionState{}
	if !state.Add("a_b") {
		t.Error("first Add should report true")
	}
	if state.Add("a_b") {
		t.Error("duplicate Add should report false")
	}
	if len(state.Tools) != 1 {
		t.Errorf("expected 1 tool, got %d", len(state.Tools))
	}
}
