package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarpova/voyagerui/internal/chat"
)

// renderThread lays out the message list for the viewport: sender-styled
// headers, wrapped bodies, numbered suggestion chips under the last
// assistant entry. Assistant replies arrive as markdown and are rendered
// as such; anything glamour chokes on falls back to plain text.
func renderThread(messages []chat.Message, suggestions []string, width int) string {
	if width < 20 {
		width = 20
	}
	body := lipgloss.NewStyle().Width(width)
	markdown, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		markdown = nil
	}

	var b strings.Builder
	if len(messages) == 0 {
		b.WriteString(dimStyle.Render("Ask me anything about your next trip."))
		b.WriteString("\n")
	}
	for _, m := range messages {
		var header string
		switch {
		case m.Err:
			header = errorStyle.Render("! assistant")
		case m.Sender == chat.SenderUser:
			header = userStyle.Render("you")
		default:
			header = assistantStyle.Render("assistant")
		}
		if !m.Timestamp.IsZero() {
			header += dimStyle.Render("  " + m.Timestamp.Format("15:04"))
		}
		b.WriteString(header)
		b.WriteString("\n")

		content := body.Render(m.Content)
		if markdown != nil && m.Sender == chat.SenderAssistant && !m.Err {
			if rendered, err := markdown.Render(m.Content); err == nil {
				content = strings.TrimRight(rendered, "\n")
			}
		}
		b.WriteString(content)
		b.WriteString("\n\n")
	}

	if len(suggestions) > 0 {
		b.WriteString(suggestionStyle.Render("Suggestions:"))
		b.WriteString("\n")
		for i, s := range suggestions {
			if i >= 9 {
				break
			}
			b.WriteString(suggestionStyle.Render(fmt.Sprintf("  [%d] %s", i+1, s)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
