package tools

import (
	"context"
	"fmt"
	"strings"

	"grokchat/search"
)

// Capability classifies what a tool identifier can actually do. Search is
// the only capability with a real backend; scrape, crawl and reasoning are
// deterministic stubs. That duality is the system's actual behavior and is
// preserved, not corrected.
type Capability int

const (
	CapUnknown Capability = iota
	CapSearch
	CapScrape
	CapCrawl
	CapReasoning
)

// capabilityOf classifies once, by substring over the whole identifier.
// Precedence handles brand-name collisions: "firecrawl" itself contains
// "crawl", so scrape is tested first and search before crawl (making
// "firecrawl_search" search-capable, as is anything containing "research").
func capabilityOf(id string) Capability {
	lower := strings.ToLower(id)
	switch {
	case strings.Contains(lower, "reason"):
		return CapReasoning
	case strings.Contains(lower, "scrape"):
		return CapScrape
	case strings.Contains(lower, "search"):
		return CapSearch
	case strings.Contains(lower, "crawl"):
		return CapCrawl
	default:
		return CapUnknown
	}
}

// Executor runs selected tools. Execute never returns an error; every
// failure mode is encoded in the envelope.
type Executor struct {
	searchClient *search.Client
	country      string
	maxRetries   int
}

func NewExecutor(searchClient *search.Client, country string, maxRetries int) *Executor {
	if country == "" {
		country = "us"
	}
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &Executor{
		searchClient: searchClient,
		country:      country,
		maxRetries:   maxRetries,
	}
}

// Execute performs the tool's action for the query and returns a uniform
// result envelope. Identifiers are split on the first underscore; malformed
// ones (no separator) fail immediately.
func (e *Executor) Execute(ctx context.Context, toolID, query string) ResultEnvelope {
	if !strings.Contains(toolID, "_") {
		return failedEnvelope(toolID, fmt.Sprintf("malformed tool identifier %q: expected {function}_{server}", toolID))
	}

	switch capabilityOf(toolID) {
	case CapSearch:
		return e.executeSearch(ctx, toolID, query)

	case CapScrape:
		targetURL := ExtractURL(query)
		if targetURL == "" {
			return failedEnvelope(toolID, "No URL found in query. Please provide a website URL to scrape.")
		}
		return failedEnvelope(toolID, fmt.Sprintf("Web scraping is not implemented. Attempted URL: %s", targetURL))

	case CapCrawl:
		targetURL := ExtractURL(query)
		if targetURL == "" {
			return failedEnvelope(toolID, "No URL found in query. Please provide a website URL to crawl.")
		}
		return failedEnvelope(toolID, fmt.Sprintf("Web crawling is not implemented. Attempted URL: %s", targetURL))

	case CapReasoning:
		return failedEnvelope(toolID, "Reasoning tools are not implemented.")

	default:
		return failedEnvelope(toolID, fmt.Sprintf("Tool not implemented: %s", toolID))
	}
}

func (e *Executor) executeSearch(ctx context.Context, toolID, query string) ResultEnvelope {
	freshness := ""
	if search.TimeSensitive(query) {
		freshness = search.FreshnessDay
	}

	results, err := e.searchClient.Search(ctx, query, search.Options{
		Count:      search.ResultCountForQuery(query),
		Country:    e.country,
		Freshness:  freshness,
		MaxRetries: e.maxRetries,
	})
	if err != nil {
		return failedEnvelope(toolID, err.Error())
	}
	if len(results) == 0 {
		return failedEnvelope(toolID, "No search results found for query.")
	}

	return ResultEnvelope{
		Tool:    toolID,
		Success: true,
		Data:    ResultData{Results: results},
	}
}
