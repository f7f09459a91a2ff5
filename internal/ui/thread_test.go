package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mkarpova/voyagerui/internal/chat"
)

func TestRenderThreadOrdersAndLabelsMessages(t *testing.T) {
	ts := time.Date(2026, 8, 21, 14, 5, 0, 0, time.UTC)
	messages := []chat.Message{
		{ID: "m1", Sender: chat.SenderUser, Content: "Plan a trip", Timestamp: ts},
		{ID: "m2", Sender: chat.SenderAssistant, Content: "Where to?", Timestamp: ts.Add(time.Second)},
	}

	out := renderThread(messages, nil, 60)
	require.Contains(t, out, "you")
	require.Contains(t, out, "assistant")
	require.Contains(t, out, "Plan a trip")
	require.Contains(t, out, "Where to?")
	require.Less(t, strings.Index(out, "Plan a trip"), strings.Index(out, "Where to?"))
}

func TestRenderThreadMarksErrors(t *testing.T) {
	messages := []chat.Message{
		{ID: "m1", Sender: chat.SenderAssistant, Content: "Something went wrong: boom", Err: true},
	}
	out := renderThread(messages, nil, 60)
	require.Contains(t, out, "! assistant")
	require.Contains(t, out, "Something went wrong")
}

func TestRenderThreadNumbersSuggestions(t *testing.T) {
	out := renderThread(nil, []string{"Show beaches", "Plan a trip"}, 60)
	require.Contains(t, out, "[1] Show beaches")
	require.Contains(t, out, "[2] Plan a trip")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "a long ...", truncate("a long conversation title", 10))
	require.Equal(t, "ab", truncate("ab", 2))
}
