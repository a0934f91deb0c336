// Package prompt builds the system and user prompts sent to the model and
// post-processes replies to enforce citation and attribution conventions.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"grokchat/tools"
)

// Content caps for serialized scrape results. Longer content is cut at the
// cap and marked with truncationMarker.
const (
	scrapeContentLimit = 2000
	crawlPageLimit     = 1000
	truncationMarker   = "... [Content truncated]"

	maxCrawlPages = 3
	maxPageLinks  = 5
)

// mathFormattingInstruction is always prepended to the user prompt so
// equations render correctly in Markdown/LaTeX environments.
const mathFormattingInstruction = `
When your response contains mathematical expressions or equations, format them as follows for correct rendering:

- For inline equations, wrap the LaTeX code with single dollar signs: $...$
  - Example: The resonant frequency is $\omega_0 = \frac{1}{\sqrt{LC_0}}$.
- For block (display) equations, wrap the LaTeX code with double dollar signs:
  $$
  ...
  $$
  - Example:
    $$
    L \frac{d^2 Q}{dt^2} + R \frac{dQ}{dt} + \frac{Q}{C(t)} = V_{\text{in}}(t)
    $$

Always use these delimiters so that equations render correctly in Markdown/LaTeX environments.
`

// Input collects everything a single turn contributes to the prompt pair.
type Input struct {
	Query         string
	Date          time.Time
	SearchContext string                 // formatted search result block, "" when unused
	NewsQuery     bool                   // query matched the time-sensitivity keywords
	ToolsUsed     []string               // selected tool identifiers, in order
	ToolResults   []tools.ResultEnvelope // successful envelopes to serialize
}

// Build assembles the (system, user) prompt pair.
func Build(in Input) (string, string) {
	date := in.Date.Format("2006-01-02")
	return buildSystemPrompt(in, date), buildUserPrompt(in, date)
}

func buildSystemPrompt(in Input, date string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI assistant powered by the Grok model from xAI. Today's date is %s.

CRITICAL INSTRUCTIONS:
1. Be direct and concise - focus on answering the user's question
2. NEVER present speculative information as fact
3. When using search results or external tools, you MUST cite your sources
4. Always include a "References" section when providing factual information
5. If search results are provided, you MUST use them to answer the query
6. DO NOT claim you don't have access to current information if search results are provided
7. When using external tools, always incorporate their results in your answer
8. For news-related queries, prioritize the most recent information and clearly state the date of the information

Your primary goal is to provide helpful, ACCURATE information that directly addresses what the user is asking.
`, date)

	if in.NewsQuery {
		b.WriteString(`
SPECIAL INSTRUCTIONS FOR NEWS QUERIES:
1. Focus on providing the most recent information available in the search results
2. Clearly state the publication date of news articles when available
3. Organize information chronologically when possible, with newest information first
4. Highlight breaking or developing news stories
5. Provide a balanced overview of the topic from multiple sources
6. Avoid speculation about future developments unless explicitly cited from sources
`)
	}

	if len(in.ToolResults) > 0 {
		b.WriteString("\n\nIMPORTANT: When tool results are provided, DO NOT incorporate the tool reasoning directly into your main response text. Instead, place tool results in a separate section at the end of your response.")
		b.WriteString("\n\nWhen web scraping tools are used, you MUST include the content from the scraped website in your response. Format the scraped content clearly and include the source URL. For example: 'According to [website], [content from website]...'")
	}

	return b.String()
}

func buildUserPrompt(in Input, date string) string {
	toolsInfo := formatToolsInfo(in.ToolsUsed)
	toolResultsInfo := formatToolResults(in.ToolResults)

	var body string
	if in.SearchContext != "" {
		newsInstructions := ""
		if in.NewsQuery {
			newsInstructions = `
10. For news queries, prioritize the most recent information and clearly state the publication date
11. Organize news information chronologically when possible, with newest information first
12. Highlight breaking or developing news stories
`
		}

		body = fmt.Sprintf(`Query: %q
Today's date is %s.

SEARCH RESULTS (YOU MUST USE THESE TO ANSWER THE QUERY):
%s%s%s

CRITICAL INSTRUCTIONS:
1. You MUST use the search results and tool results above to answer the query
2. You MUST cite sources using [1], [2], etc. for ANY factual information
3. You MUST include a "References" section at the end listing all sources
4. If search results don't provide enough information, clearly state this
5. NEVER present information as factual without citing a source
6. If tools were used, incorporate their results in your answer BUT DO NOT mention the tools by name in your response
7. DO NOT claim you don't have access to current information if search results are provided
8. DO NOT include any text about which tools were used in your response - this will be shown separately
9. If web scraping results are provided, you MUST include the content from the scraped website in your answer and cite the source%s

Be direct and concise in your answer.
`, in.Query, date, in.SearchContext, toolsInfo, toolResultsInfo, newsInstructions)
	} else {
		newsInstructions := ""
		if in.NewsQuery {
			newsInstructions = `
5. For news-related queries, prioritize the most recent information and clearly state the publication date.
6. Organize news information chronologically when possible, with newest information first.
7. Highlight breaking or developing news stories.
`
		}

		body = fmt.Sprintf(`Today's date is %s.

Answer directly: %s%s%s

IMPORTANT:
1. If you don't have enough information to answer factually, clearly state this. DO NOT make up information or present speculative information as fact.
2. If tools were used, incorporate their results in your answer BUT DO NOT mention the tools by name in your response.
3. DO NOT include any text about which tools were used in your response - this will be shown separately.
4. If web scraping results are provided, you MUST include the content from the scraped website in your answer and cite the source.%s`,
			date, in.Query, toolsInfo, toolResultsInfo, newsInstructions)
	}

	return mathFormattingInstruction + "\n\n" + body
}

func formatToolsInfo(toolsUsed []string) string {
	if len(toolsUsed) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nTools used for this query:\n")
	for i, tool := range toolsUsed {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- " + tool)
	}
	return b.String()
}

// formatToolResults serializes envelopes with per-kind formatting: record
// lists become a numbered title/URL/description block, scrape payloads
// render title, URL and capped content with up to maxPageLinks links, crawl
// payloads render the first maxCrawlPages pages, and anything else renders
// as a flat label.
func formatToolResults(results []tools.ResultEnvelope) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nTOOL RESULTS:\n")
	for _, result := range results {
		fmt.Fprintf(&b, "Tool: %s\n", result.Tool)

		switch {
		case len(result.Data.Results) > 0:
			for i, item := range result.Data.Results {
				fmt.Fprintf(&b, "[%d] %s - %s\n", i+1, valueOr(item.Title, "No title"), valueOr(item.URL, "No URL"))
				if item.Snippet != "" {
					fmt.Fprintf(&b, "    %s\n", item.Snippet)
				}
			}

		case result.Data.Scrape != nil && len(result.Data.Scrape.Pages) > 0:
			payload := result.Data.Scrape
			fmt.Fprintf(&b, "Crawled content from: %s\n", payload.BaseURL)
			fmt.Fprintf(&b, "Pages crawled: %d\n\n", len(payload.Pages))
			for i, page := range payload.Pages {
				if i >= maxCrawlPages {
					break
				}
				fmt.Fprintf(&b, "Page %d: %s (%s)\n", i+1, valueOr(page.Title, "No title"), valueOr(page.URL, "No URL"))
				fmt.Fprintf(&b, "%s\n\n", truncateContent(page.Content, crawlPageLimit))
			}

		case result.Data.Scrape != nil:
			payload := result.Data.Scrape
			fmt.Fprintf(&b, "Scraped content from: %s (%s)\n\n", payload.Title, payload.URL)
			fmt.Fprintf(&b, "%s\n", truncateContent(payload.Content, scrapeContentLimit))
			if len(payload.Links) > 0 {
				b.WriteString("\nLinks from the page:\n")
				for i, link := range payload.Links {
					if i >= maxPageLinks {
						break
					}
					fmt.Fprintf(&b, "- %s (%s)\n", valueOr(link.Text, "Link"), link.URL)
				}
			}

		default:
			fmt.Fprintf(&b, "Result: %s\n", result.Data.Label)
		}

		b.WriteByte('\n')
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func truncateContent(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	return content[:limit] + truncationMarker
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
