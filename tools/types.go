// Package tools implements the tool registry, the query-driven tool
// selector and the tool executor. A "tool" is a named external capability
// (search, scrape, crawl, documentation lookup, deep research, reasoning)
// identified by the composite string "{function}_{serverName}" derived from
// the mcpServers configuration.
package tools

import (
	"errors"

	"grokchat/search"
)

// ErrNoToolsAvailable is returned by the selector when the registry exposes
// no tools at all for the current configuration.
var ErrNoToolsAvailable = errors.New("no tools available")

// PageLink is one outbound link found on a scraped page.
type PageLink struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Page is one page of a multi-page crawl payload.
type Page struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Content string `json:"content,omitempty"`
}

// ScrapePayload is the structured result of a scrape (single page) or crawl
// (BaseURL + Pages). Scraping has no real backend today, so these payloads
// only occur in stored history and tests, but the prompt assembler must be
// able to render them.
type ScrapePayload struct {
	URL     string     `json:"url,omitempty"`
	Title   string     `json:"title,omitempty"`
	Content string     `json:"content,omitempty"`
	Links   []PageLink `json:"links,omitempty"`
	BaseURL string     `json:"base_url,omitempty"`
	Pages   []Page     `json:"pages,omitempty"`
}

// ResultData carries the payload of a tool execution: exactly one of the
// fields is set.
type ResultData struct {
	Results []search.Result `json:"results,omitempty"`
	Scrape  *ScrapePayload  `json:"scrape,omitempty"`
	Label   string          `json:"label,omitempty"`
}

// ResultEnvelope is the uniform outcome of executing one tool. Error is
// present iff Success is false. Envelopes are never mutated after creation;
// they are attached to the assistant message for later redisplay.
type ResultEnvelope struct {
	Tool    string     `json:"tool"`
	Success bool       `json:"success"`
	Data    ResultData `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func failedEnvelope(tool, errMsg string) ResultEnvelope {
	return ResultEnvelope{Tool: tool, Success: false, Error: errMsg}
}

// SelectionState is the transient per-query selection result. Exactly one
// instance exists per in-flight query; it is created fresh by Select and
// discarded once the turn's response is produced.
type SelectionState struct {
	Tools       []string
	UsingSearch bool
}

// Add appends id unless already selected. Reports whether it was added.
func (s *SelectionState) Add(id string) bool {
	for _, t := range s.Tools {
		if t == id {
			return false
		}
	}
	s.Tools = append(s.Tools, id)
	return true
}

// HasMatching reports whether any selected tool satisfies match.
func (s *SelectionState) HasMatching(match func(string) bool) bool {
	for _, t := range s.Tools {
		if match(t) {
			return true
		}
	}
	return false
}
