package ui

import (
	"strings"
	"time"

	"github.com/mkarpova/voyagerui/internal/chat"
)

// sidebar renders the conversation list grouped by recency and tracks the
// cursor over the flattened item list.
type sidebar struct {
	conversations []chat.Conversation
	cursor        int
	width         int
	currentID     string
}

func newSidebar() sidebar {
	return sidebar{width: 28}
}

func (s *sidebar) setConversations(conversations []chat.Conversation) {
	s.conversations = conversations
	if s.cursor >= len(conversations) {
		s.cursor = len(conversations) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *sidebar) moveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *sidebar) moveDown() {
	if s.cursor < len(s.conversations)-1 {
		s.cursor++
	}
}

// selected returns the conversation under the cursor.
func (s *sidebar) selected() (chat.Conversation, bool) {
	if len(s.conversations) == 0 {
		return chat.Conversation{}, false
	}
	return s.conversations[s.cursor], true
}

func (s *sidebar) view(height int, now time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Conversations"))
	b.WriteString("\n")

	if len(s.conversations) == 0 {
		b.WriteString(dimStyle.Render("No conversations yet"))
	} else {
		groups := chat.GroupByRecency(s.conversations, now)
		index := indexByID(s.conversations)
		for _, bucket := range chat.Buckets {
			items := groups[bucket]
			if len(items) == 0 {
				continue
			}
			b.WriteString("\n")
			b.WriteString(bucketStyle.Render(string(bucket)))
			b.WriteString("\n")
			for _, conversation := range items {
				line := truncate(conversation.DisplayTitle(), s.width-4)
				switch {
				case index[conversation.ID] == s.cursor:
					line = selectedStyle.Render("> " + line)
				case conversation.ID == s.currentID:
					line = userStyle.Render("  " + line)
				default:
					line = "  " + line
				}
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	return sidebarBorder.Height(height).Width(s.width).Render(b.String())
}

func indexByID(conversations []chat.Conversation) map[string]int {
	m := make(map[string]int, len(conversations))
	for i, c := range conversations {
		m[c.ID] = i
	}
	return m
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
