package tools

import "strings"

// Intent is one of the fixed keyword-defined query classes that drive tool
// selection.
type Intent string

const (
	IntentWebScraping   Intent = "web_scraping"
	IntentWebCrawling   Intent = "web_crawling"
	IntentSearch        Intent = "search"
	IntentNews          Intent = "news"
	IntentDocumentation Intent = "documentation"
	IntentResearch      Intent = "research"
	IntentReasoning     Intent = "reasoning"
)

// intentKeywords is the single data-driven classification table consulted by
// every selector rule. Matching is case-insensitive substring over the whole
// query.
var intentKeywords = map[Intent][]string{
	IntentWebScraping: {
		"scrape", "scraping", "extract", "content from", "website content", "page content",
	},
	IntentWebCrawling: {
		"crawl", "crawling", "spider", "entire site", "all pages", "site map",
	},
	IntentSearch: {
		"search", "find", "look up", "lookup", "google",
		"what is", "what are", "what happened", "who is", "where is", "when did", "tell me about",
	},
	IntentNews: {
		"news", "recent", "latest", "today", "current", "breaking", "update", "development", "headlines",
	},
	IntentDocumentation: {
		"documentation", "docs", "code", "programming", "api reference", "library", "syntax", "example code",
	},
	IntentResearch: {
		"research", "analyze", "analysis", "in-depth", "comprehensive", "investigate", "study", "disaster",
	},
	IntentReasoning: {
		"reason", "reasoning", "solve", "equation", "calculate", "math",
		"step by step", "break down", "breakdown", "subtasks",
	},
}

// intentOrder fixes the iteration order for keyword-override scanning.
var intentOrder = []Intent{
	IntentWebScraping,
	IntentWebCrawling,
	IntentSearch,
	IntentNews,
	IntentDocumentation,
	IntentResearch,
	IntentReasoning,
}

// matchesIntent reports whether query hits any keyword of the category.
// query must already be lower-cased.
func matchesIntent(query string, intent Intent) bool {
	for _, kw := range intentKeywords[intent] {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

// Tool capability predicates. These are deliberately substring tests over
// the whole identifier: "deep-research" is search-capable because
// "research" contains "search", and that behavior is part of the contract.

func isSearchTool(id string) bool {
	return strings.Contains(strings.ToLower(id), "search")
}

func isScrapeTool(id string) bool {
	return strings.Contains(strings.ToLower(id), "scrape")
}

func isCrawlTool(id string) bool {
	return strings.Contains(strings.ToLower(id), "crawl")
}

func isScrapeOrCrawlTool(id string) bool {
	return isScrapeTool(id) || isCrawlTool(id)
}

func isReasoningTool(id string) bool {
	return strings.Contains(strings.ToLower(id), "reason")
}

func isNewsTool(id string) bool {
	lower := strings.ToLower(id)
	return strings.Contains(lower, "news") || strings.Contains(lower, "tavily")
}

func isDocumentationTool(id string) bool {
	lower := strings.ToLower(id)
	return strings.Contains(lower, "documentation") || strings.Contains(lower, "perplexity")
}

func isResearchTool(id string) bool {
	lower := strings.ToLower(id)
	return strings.Contains(lower, "research") || strings.Contains(lower, "serper")
}

// toolMatcherFor maps an intent category to its tool predicate.
func toolMatcherFor(intent Intent) func(string) bool {
	switch intent {
	case IntentWebScraping:
		return isScrapeTool
	case IntentWebCrawling:
		return isCrawlTool
	case IntentSearch:
		return isSearchTool
	case IntentNews:
		return isNewsTool
	case IntentDocumentation:
		return isDocumentationTool
	case IntentResearch:
		return isResearchTool
	case IntentReasoning:
		return isReasoningTool
	}
	return func(string) bool { return false }
}
