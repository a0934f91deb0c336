package prompt

import (
	"fmt"
	"strings"
)

// citationNote is appended when the reply already carries a References
// heading but no numbered citation markers.
const citationNote = "\n\n**Note: The information provided should include citations to the sources above. Please ask for clarification if sources aren't properly cited.**"

// reasonerNote separates reasoning-tool output from the main reply body.
const reasonerNote = "\n\n---\n*Note: Reasoning is provided in this separate section and should not be incorporated into the main response text.*"

// Keyword pairs used to strip lines where the model names its tools despite
// being instructed not to. A line is dropped when it mentions a tool name
// together with a usage verb.
var (
	toolNameKeywords = []string{"tool", "mcp", "search", "tavily", "brave", "perplexity", "serper", "firecrawl"}
	usageKeywords    = []string{"used", "using", "utilized", "provided by", "powered by", "via"}
)

type reference struct {
	title string
	url   string
}

// PostProcess normalizes a model reply: it injects a References section when
// search context was used but none is present, flags missing citation
// markers, strips tool-mention lines, and appends the reasoning separator
// when a reasoning tool contributed to the turn. Applying it twice with the
// same arguments yields the same text.
func PostProcess(content, searchContext string, toolsUsed []string) string {
	if searchContext != "" {
		content = ensureReferences(content, searchContext)
	}
	if len(toolsUsed) > 0 {
		content = stripToolMentions(content)
	}
	if usedReasoner(toolsUsed) && !strings.Contains(content, reasonerNote) {
		content += reasonerNote
	}
	return content
}

// ensureReferences applies only when title/URL pairs can be recovered from
// the context. A reply without a References heading gets one generated from
// those pairs; a reply that has the heading but no [1]/[2]/[3] markers gets
// the citation note instead.
func ensureReferences(content, searchContext string) string {
	refs := parseReferences(searchContext)
	if len(refs) == 0 {
		return content
	}

	if !strings.Contains(strings.ToLower(content), "references") {
		var b strings.Builder
		b.WriteString(content)
		b.WriteString("\n\n## References\n")
		for i, ref := range refs {
			fmt.Fprintf(&b, "[%d] %s - %s\n", i+1, ref.title, ref.url)
		}
		return b.String()
	}

	if !strings.Contains(content, "[1]") && !strings.Contains(content, "[2]") && !strings.Contains(content, "[3]") &&
		!strings.Contains(content, citationNote) {
		return content + citationNote
	}
	return content
}

// parseReferences recovers title/URL pairs from the formatted search context
// lines produced by search.FormatResultsForContext.
func parseReferences(searchContext string) []reference {
	var refs []reference
	for _, line := range strings.Split(searchContext, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		_, rest, ok := strings.Cut(line, "] ")
		if !ok {
			continue
		}
		body, source, ok := strings.Cut(rest, " (Source: ")
		if !ok {
			continue
		}
		title, _, _ := strings.Cut(body, ": ")
		refs = append(refs, reference{
			title: title,
			url:   strings.TrimSuffix(source, ")"),
		})
	}
	return refs
}

func stripToolMentions(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if mentionsToolUsage(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func mentionsToolUsage(line string) bool {
	lower := strings.ToLower(line)
	for _, name := range toolNameKeywords {
		if !strings.Contains(lower, name) {
			continue
		}
		for _, verb := range usageKeywords {
			if strings.Contains(lower, verb) {
				return true
			}
		}
	}
	return false
}

func usedReasoner(toolsUsed []string) bool {
	for _, tool := range toolsUsed {
		if strings.Contains(tool, "mcp-reasoner") {
			return true
		}
	}
	return false
}
