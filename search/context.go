package search

import (
	"fmt"
	"strings"
)

// Metadata summarizes a formatted search context.
type Metadata struct {
	ResultCount int
	Query       string
}

// FormatResultsForContext renders results as the numbered context block fed
// to the model. The line shape is load-bearing: the response post-processor
// parses these exact "[n] title: snippet (Source: url)" lines back out to
// build a References section.
func FormatResultsForContext(results []Result, query string) (string, Metadata) {
	if len(results) == 0 {
		return "", Metadata{}
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		line := fmt.Sprintf("[%d] %s: %s", i+1, r.Title, r.Snippet)
		if r.PublishedDate != "" {
			line += fmt.Sprintf(" (Published: %s)", r.PublishedDate)
		}
		line += fmt.Sprintf(" (Source: %s)", r.URL)
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), Metadata{
		ResultCount: len(results),
		Query:       query,
	}
}
