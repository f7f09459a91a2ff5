package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mkarpova/voyagerui/internal/chat"
)

// Messages produced by background commands. Each carries a snapshot taken
// after the controller finished; whatever state is current when the
// message lands is what gets updated.

type conversationsMsg struct {
	conversations []chat.Conversation
}

type threadMsg struct {
	conversation  chat.Conversation
	messages      []chat.Message
	state         chat.State
	conversations []chat.Conversation
}

type sentMsg struct {
	messages      []chat.Message
	suggestions   []string
	conversations []chat.Conversation
}

type deletedMsg struct {
	conversations []chat.Conversation
	hadCurrent    bool
}

type renamedMsg struct {
	conversations []chat.Conversation
}

type sessionExpiredMsg struct{}

func refreshCmd(ctx context.Context, ctrl *chat.Controller) tea.Cmd {
	return func() tea.Msg {
		return conversationsMsg{conversations: ctrl.Refresh(ctx)}
	}
}

func selectCmd(ctx context.Context, ctrl *chat.Controller, id string) tea.Cmd {
	return func() tea.Msg {
		_ = ctrl.Select(ctx, id)
		conversation, _ := ctrl.Current()
		return threadMsg{
			conversation:  conversation,
			messages:      ctrl.Thread(),
			state:         ctrl.State(),
			conversations: ctrl.Conversations(),
		}
	}
}

func sendCmd(ctx context.Context, ctrl *chat.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := ctrl.Send(ctx, text)
		if err != nil {
			// Creating the conversation failed; nothing was sent.
			return conversationsMsg{conversations: ctrl.Conversations()}
		}
		var suggestions []string
		if reply != nil {
			suggestions = reply.Suggestions
		}
		return sentMsg{
			messages:      ctrl.Thread(),
			suggestions:   suggestions,
			conversations: ctrl.Conversations(),
		}
	}
}

func renameCmd(ctx context.Context, ctrl *chat.Controller, id, title string) tea.Cmd {
	return func() tea.Msg {
		_ = ctrl.Rename(ctx, id, title)
		return renamedMsg{conversations: ctrl.Conversations()}
	}
}

func deleteCmd(ctx context.Context, ctrl *chat.Controller, id string, wasCurrent bool) tea.Cmd {
	return func() tea.Msg {
		_ = ctrl.Delete(ctx, id)
		return deletedMsg{conversations: ctrl.Conversations(), hadCurrent: wasCurrent}
	}
}

// waitForExpiry turns the pipeline's unauthorized hook into a tea message.
func waitForExpiry(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-ch
		if !ok {
			return nil
		}
		return sessionExpiredMsg{}
	}
}
