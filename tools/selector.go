package tools

import (
	"strings"

	"grokchat/search"
)

// StatusFunc receives transient progress text as tools are selected. It
// exists for live UI feedback only; passing nil disables reporting.
type StatusFunc func(status string)

// Toggles is the per-turn snapshot of the user-facing switches the selector
// consults.
type Toggles struct {
	WebSearchEnabled bool
}

// Selector decides which tools to use for a query. It is stateless; each
// Select call builds a fresh SelectionState.
type Selector struct {
	source Source
	status StatusFunc
}

func NewSelector(source Source, status StatusFunc) *Selector {
	return &Selector{source: source, status: status}
}

func (s *Selector) report(text string) {
	if s.status != nil {
		s.status(text)
	}
}

// Select runs the decision procedure over the query. Steps are applied in
// strict precedence order; once a step has added a tool for its category it
// does not re-trigger. The returned state lists tools in selection order,
// deduplicated, all drawn from the source's available set.
func (s *Selector) Select(query string, toggles Toggles) (*SelectionState, error) {
	state := &SelectionState{}
	available := s.source.AvailableTools()
	if len(available) == 0 {
		return state, ErrNoToolsAvailable
	}

	lower := strings.ToLower(query)

	// Step 1: explicit server override ("use {serverName}").
	if done := s.applyServerOverride(state, lower, available, toggles); done {
		return state, nil
	}

	// Step 2: explicit category override ("use {keyword}"), only when step 1
	// selected nothing.
	if len(state.Tools) == 0 {
		if done := s.applyCategoryOverride(state, lower, available); done {
			return state, nil
		}
	}

	// Step 3: URL, bare domain or scraping intent. Early-returns when a
	// scrape/crawl tool is found.
	if hasURL(lower) || hasBareDomain(lower) || matchesIntent(lower, IntentWebScraping) {
		wantCrawl := matchesIntent(lower, IntentWebCrawling)
		if tool := pickScrapeCrawlTool(available, wantCrawl); tool != "" {
			if state.Add(tool) {
				if wantCrawl {
					s.report("Crawling website content...")
				} else {
					s.report("Scraping website content...")
				}
			}
			return state, nil
		}
	}

	// Step 4: generic search intent.
	if len(state.Tools) == 0 && toggles.WebSearchEnabled && matchesIntent(lower, IntentSearch) {
		if tool := firstMatching(available, isSearchTool); tool != "" {
			if state.Add(tool) {
				state.UsingSearch = true
				s.report("Using search tool...")
			}
		}
	}

	// Step 5: reasoning intent, with breakdown vs solve-equation variants.
	if matchesIntent(lower, IntentReasoning) && !state.HasMatching(isReasoningTool) {
		if tool := pickReasoningTool(available, lower); tool != "" {
			if state.Add(tool) {
				s.report("Reasoning through the problem...")
			}
		}
	}

	// Step 6: news intent. Prefer a dedicated news tool, else the most
	// comprehensive search tool not yet selected.
	if matchesIntent(lower, IntentNews) {
		tool := firstMatchingExcept(available, isNewsTool, state)
		if tool == "" {
			tool = pickComprehensiveSearchTool(available, state)
		}
		if tool != "" && state.Add(tool) {
			if toggles.WebSearchEnabled && isSearchTool(tool) {
				state.UsingSearch = true
			}
			s.report("Retrieving latest news...")
		}
	}

	// Step 7: documentation/code intent.
	if matchesIntent(lower, IntentDocumentation) && !state.HasMatching(isDocumentationTool) {
		if tool := firstMatching(available, isDocumentationTool); tool != "" {
			if state.Add(tool) {
				s.report("Retrieving code documentation...")
			}
		}
	}

	// Step 8: generic web intent, independent of step 3's early return.
	if hasBareDomain(lower) || strings.Contains(lower, "content from") || strings.Contains(lower, "scrape") {
		if !state.HasMatching(isScrapeOrCrawlTool) {
			if tool := pickScrapeCrawlTool(available, false); tool != "" {
				if state.Add(tool) {
					s.report("Fetching website content...")
				}
			}
		}
	}

	// Step 9: research intent.
	if matchesIntent(lower, IntentResearch) && !state.HasMatching(isResearchTool) {
		if tool := firstMatching(available, isResearchTool); tool != "" {
			if state.Add(tool) {
				s.report("Performing deep research...")
			}
		}
	}

	// Step 10: fallback - force a search tool when nothing matched at all.
	if len(state.Tools) == 0 && toggles.WebSearchEnabled {
		if tool := pickFallbackSearchTool(available, lower); tool != "" {
			if state.Add(tool) {
				state.UsingSearch = true
				s.report("Using search tool...")
			}
		}
	}

	return state, nil
}

// applyServerOverride handles "use {serverName}". A non-search override
// tool ends selection immediately; a search-like one is kept and
// classification continues so later categories can still contribute.
func (s *Selector) applyServerOverride(state *SelectionState, lower string, available []string, toggles Toggles) bool {
	for _, server := range s.source.AvailableServers() {
		if !strings.Contains(lower, "use "+strings.ToLower(server)) {
			continue
		}

		serverTools := ToolsForServer(available, server)
		if len(serverTools) == 0 {
			continue
		}

		tool := pickServerTool(serverTools, server, lower)
		if state.Add(tool) {
			s.report("Using " + server + "...")
		}

		if !isSearchTool(tool) {
			return true
		}
		if toggles.WebSearchEnabled {
			state.UsingSearch = true
		}
		return false
	}
	return false
}

// applyCategoryOverride handles "use {keyword}" for intent-category
// keywords. The first available tool matching the category wins and ends
// selection.
func (s *Selector) applyCategoryOverride(state *SelectionState, lower string, available []string) bool {
	for _, intent := range intentOrder {
		for _, kw := range intentKeywords[intent] {
			if !strings.Contains(lower, "use "+kw) {
				continue
			}
			if tool := firstMatching(available, toolMatcherFor(intent)); tool != "" {
				state.Add(tool)
				s.report("Using " + string(intent) + " tool...")
				return true
			}
		}
	}
	return false
}

// pickServerTool chooses among a multi-function server's tools by secondary
// keyword match against the query, else the first available.
func pickServerTool(serverTools []string, server, lower string) string {
	if len(serverTools) == 1 {
		return serverTools[0]
	}
	for _, id := range serverTools {
		function := strings.TrimSuffix(id, "_"+server)
		for _, part := range strings.FieldsFunc(strings.ToLower(function), func(r rune) bool {
			return r == '_' || r == '-'
		}) {
			if len(part) > 2 && strings.Contains(lower, part) {
				return id
			}
		}
	}
	return serverTools[0]
}

// pickScrapeCrawlTool prefers a crawl tool when wantCrawl, else a scrape
// tool; Firecrawl-branded tools win over generic ones.
func pickScrapeCrawlTool(available []string, wantCrawl bool) string {
	match := isScrapeTool
	if wantCrawl {
		// "firecrawl_scrape_..." satisfies isCrawlTool through its brand
		// name, so crawl preference must exclude scrape variants.
		match = func(id string) bool { return isCrawlTool(id) && !isScrapeTool(id) }
	}

	if tool := firstMatching(available, func(id string) bool {
		return match(id) && strings.Contains(strings.ToLower(id), "firecrawl")
	}); tool != "" {
		return tool
	}
	if tool := firstMatching(available, match); tool != "" {
		return tool
	}
	// Fall back across the scrape/crawl divide rather than selecting nothing.
	return firstMatching(available, isScrapeOrCrawlTool)
}

// pickReasoningTool sub-selects the solve-equation vs breakdown variant by
// keyword, defaulting to the first reasoning tool.
func pickReasoningTool(available []string, lower string) string {
	equation := strings.Contains(lower, "solve") || strings.Contains(lower, "equation") ||
		strings.Contains(lower, "math") || strings.Contains(lower, "calculate")
	breakdown := strings.Contains(lower, "break") || strings.Contains(lower, "task") ||
		strings.Contains(lower, "step")

	if equation {
		if tool := firstMatching(available, func(id string) bool {
			l := strings.ToLower(id)
			return isReasoningTool(id) && (strings.Contains(l, "solve") || strings.Contains(l, "equation"))
		}); tool != "" {
			return tool
		}
	}
	if breakdown {
		if tool := firstMatching(available, func(id string) bool {
			l := strings.ToLower(id)
			return isReasoningTool(id) && (strings.Contains(l, "break") || strings.Contains(l, "task"))
		}); tool != "" {
			return tool
		}
	}
	return firstMatching(available, isReasoningTool)
}

// pickComprehensiveSearchTool ranks search tools by breadth: deep research
// first, then Tavily, then enumeration order.
func pickComprehensiveSearchTool(available []string, state *SelectionState) string {
	ranked := []func(string) bool{
		func(id string) bool { return strings.Contains(strings.ToLower(id), "deep-research") },
		func(id string) bool { return strings.Contains(strings.ToLower(id), "tavily") },
		isSearchTool,
	}
	for _, match := range ranked {
		if tool := firstMatchingExcept(available, match, state); tool != "" {
			return tool
		}
	}
	return ""
}

// pickFallbackSearchTool picks the best search tool for the forced
// fallback, news-prioritized when the query is time-sensitive.
func pickFallbackSearchTool(available []string, lower string) string {
	if search.TimeSensitive(lower) {
		if tool := firstMatching(available, func(id string) bool {
			return isSearchTool(id) && isNewsTool(id)
		}); tool != "" {
			return tool
		}
	}
	return firstMatching(available, isSearchTool)
}

// firstMatching returns the first tool in enumeration order satisfying
// match, or "".
func firstMatching(available []string, match func(string) bool) string {
	for _, id := range available {
		if match(id) {
			return id
		}
	}
	return ""
}

// firstMatchingExcept skips tools already selected.
func firstMatchingExcept(available []string, match func(string) bool, state *SelectionState) string {
	for _, id := range available {
		if !match(id) {
			continue
		}
		already := false
		for _, t := range state.Tools {
			if t == id {
				already = true
				break
			}
		}
		if !already {
			return id
		}
	}
	return ""
}
