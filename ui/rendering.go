package ui

import (
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"grokchat/config"
)

var mdLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)

func (a *App) updateViewportContent(gotoBottom bool) {
	if len(a.messages) == 0 {
		a.viewport.SetContent("No messages yet. Start chatting!")
		return
	}

	var content strings.Builder
	for _, msg := range a.messages {
		switch msg.Role {
		case "system":
			continue
		case "user":
			content.WriteString(UserStyle.Render("You") + "\n")
		default:
			content.WriteString(AssistantStyle.Render("Assistant") + "\n")
		}

		rendered := msg.Rendered
		if rendered == "" {
			rendered = msg.Content
		}
		content.WriteString(rendered + "\n")

		if msg.Role == "assistant" {
			if msg.Reasoning != "" && a.cfg.ShowReasoning {
				content.WriteString(ReasoningStyle.Render("Reasoning:\n"+msg.Reasoning) + "\n")
			}
			if len(msg.ToolsUsed) > 0 {
				content.WriteString(DimStyle.Render("Tools: "+strings.Join(msg.ToolsUsed, ", ")) + "\n")
			}
		}
		content.WriteString("\n")
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderMarkdownAsync renders a message off the update loop and delivers
// the result as a markdownRenderedMsg.
func (a *App) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		start := time.Now()

		// Strip link syntax so terminals handle URL detection themselves.
		content = mdLinkRegex.ReplaceAllString(content, "$2")

		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(max(width-4, 20), 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		if config.Debug {
			config.DebugLog.Printf("[ui] markdown render for message %d took %v", messageIndex, time.Since(start))
		}

		return markdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     strings.TrimRight(string(rendered), "\n"),
		}
	}
}

func listLine(selected bool, text string) string {
	if selected {
		return SelectedStyle.Render("> " + text)
	}
	return "  " + text
}

func truncateLine(s string, width int) string {
	if width <= 3 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
