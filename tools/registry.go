package tools

import (
	"strings"
	"unicode"

	"grokchat/config"
)

// Source enumerates the tools and servers available for selection. Registry
// is the production implementation; tests may substitute a fake.
type Source interface {
	AvailableTools() []string
	AvailableServers() []string
	Description(id string) string
}

// fallbackTools is the fixed tool set used when the configuration yields no
// tools of its own. Order matters: it defines "first available" under the
// fallback, covering search, scrape, crawl, documentation and deep research.
var fallbackTools = []string{
	"search_brave-search",
	"tavily-search_tavily-mcp",
	"get_documentation_perplexity-mcp",
	"firecrawl_scrape_firecrawl-mcp",
	"firecrawl_crawl_firecrawl-mcp",
	"deep-research_Serper-search-mcp",
}

// fallbackServers mirrors fallbackTools at server granularity.
var fallbackServers = []string{
	"brave-search",
	"tavily-mcp",
	"perplexity-mcp",
	"firecrawl-mcp",
	"Serper-search-mcp",
}

// defaultToolDescriptions is the built-in description table keyed by exact
// tool identifier.
var defaultToolDescriptions = map[string]string{
	"search_brave-search":              "Web search using Brave Search API",
	"get_documentation_perplexity-mcp": "Documentation retrieval from Perplexity",
	"firecrawl_scrape_firecrawl-mcp":   "Web scraping and content extraction",
	"firecrawl_crawl_firecrawl-mcp":    "Website crawling and analysis",
	"deep-research_Serper-search-mcp":  "In-depth research across multiple sources",
	"tavily-search_tavily-mcp":         "AI-powered web search",
	"chat_perplexity_perplexity-mcp":   "Conversational AI from Perplexity",
}

// Registry derives the enabled tool set from the mcpServers configuration.
// It holds a snapshot: toggling a server mid-session takes effect on the
// next turn, when a fresh Registry is built from the updated settings.
type Registry struct {
	settings *config.MCPSettings
}

func NewRegistry(settings *config.MCPSettings) *Registry {
	if settings == nil {
		settings = config.NewMCPSettings()
	}
	return &Registry{settings: settings}
}

// AvailableTools returns tool identifiers in enumeration order: servers in
// configuration file order, each contributing autoApprove then alwaysAllow
// functions (deduplicated). When the union is empty the fixed fallback list
// is substituted, minus the Brave search tool if that server is explicitly
// disabled in the configuration.
func (r *Registry) AvailableTools() []string {
	var ids []string
	for _, name := range r.settings.ServerNames() {
		cfg := r.settings.Server(name)
		if cfg.Disabled {
			continue
		}
		for _, fn := range unionOrdered(cfg.AutoApprove, cfg.AlwaysAllow) {
			ids = append(ids, fn+"_"+name)
		}
	}

	if len(ids) > 0 {
		return ids
	}

	for _, id := range fallbackTools {
		if id == "search_brave-search" && r.serverExplicitlyDisabled("brave-search") {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// AvailableServers returns enabled server names in enumeration order,
// falling back to the fixed server list when no configured server is
// enabled.
func (r *Registry) AvailableServers() []string {
	var names []string
	for _, name := range r.settings.ServerNames() {
		if cfg := r.settings.Server(name); cfg != nil && !cfg.Disabled {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		return names
	}

	for _, name := range fallbackServers {
		if name == "brave-search" && r.serverExplicitlyDisabled("brave-search") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Description resolves a human-readable description for a tool identifier:
// configured server description first, then the built-in table, then a
// generated "<Function name> via <Server display>" form.
func (r *Registry) Description(id string) string {
	if server := r.serverForTool(id); server != "" {
		if cfg := r.settings.Server(server); cfg != nil && cfg.Description != "" {
			return cfg.Description
		}
	}

	if desc, ok := defaultToolDescriptions[id]; ok {
		return desc
	}

	function, server := splitToolID(id, r.AvailableServers())
	functionName := strings.ReplaceAll(function, "_", " ")
	serverDisplay := strings.ReplaceAll(strings.TrimSuffix(server, "-mcp"), "-", " ")
	return capitalize(functionName) + " via " + capitalize(serverDisplay)
}

// serverForTool finds the server a tool identifier belongs to by suffix
// match against the known server lists.
func (r *Registry) serverForTool(id string) string {
	for _, name := range r.AvailableServers() {
		if strings.HasSuffix(id, "_"+name) {
			return name
		}
	}
	return ""
}

func (r *Registry) serverExplicitlyDisabled(name string) bool {
	cfg := r.settings.Server(name)
	return cfg != nil && cfg.Disabled
}

// ToolsForServer filters available tools down to one server.
func ToolsForServer(available []string, server string) []string {
	var out []string
	for _, id := range available {
		if strings.HasSuffix(id, "_"+server) {
			out = append(out, id)
		}
	}
	return out
}

// splitToolID splits an identifier into (function, server). The server part
// is resolved by suffix match against known servers; identifiers with no
// known server fall back to splitting on the last underscore.
func splitToolID(id string, servers []string) (string, string) {
	for _, name := range servers {
		if suffix := "_" + name; strings.HasSuffix(id, suffix) {
			return strings.TrimSuffix(id, suffix), name
		}
	}
	if i := strings.LastIndex(id, "_"); i > 0 {
		return id[:i], id[i+1:]
	}
	return id, ""
}

// unionOrdered merges two lists preserving first-seen order.
func unionOrdered(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
