package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mkarpova/voyagerui/internal/chat"
)

// ErrSessionExpired is returned by Run when the backend rejected the
// bearer token mid-session; the caller falls back to the login screen.
var ErrSessionExpired = errors.New("session expired")

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

const inputHeight = 3

// Model is the chat screen: conversation sidebar, message thread and the
// growable input, glued to the controller through background commands.
type Model struct {
	ctx  context.Context
	ctrl *chat.Controller

	sidebar     sidebar
	viewport    viewport.Model
	input       textarea.Model
	renameInput textinput.Model
	spinner     spinner.Model

	focus       focusArea
	renaming    bool
	renameID    string
	sending     bool
	loading     bool
	suggestions []string
	userName    string
	expired     bool
	expiryCh    <-chan struct{}

	width  int
	height int
}

// New assembles the chat screen.
func New(ctx context.Context, ctrl *chat.Controller, userName string, expiryCh <-chan struct{}) Model {
	ta := textarea.New()
	ta.Placeholder = "Where do you want to go?"
	ta.Prompt = "┃ "
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("shift+enter", "alt+enter")
	ta.Focus()

	ri := textinput.New()
	ri.Placeholder = "New title"

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	vp := viewport.New(80, 20)

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		sidebar:     newSidebar(),
		viewport:    vp,
		input:       ta,
		renameInput: ri,
		spinner:     sp,
		userName:    userName,
		expiryCh:    expiryCh,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		refreshCmd(m.ctx, m.ctrl),
		waitForExpiry(m.expiryCh),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshViewport()
		return m, nil

	case sessionExpiredMsg:
		m.expired = true
		return m, tea.Quit

	case conversationsMsg:
		m.sending = false
		m.sidebar.setConversations(msg.conversations)
		m.refreshViewport()
		return m, nil

	case threadMsg:
		m.loading = false
		m.suggestions = nil
		m.sidebar.setConversations(msg.conversations)
		m.sidebar.currentID = msg.conversation.ID
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case sentMsg:
		m.sending = false
		m.suggestions = msg.suggestions
		m.sidebar.setConversations(msg.conversations)
		if current, ok := m.ctrl.Current(); ok {
			m.sidebar.currentID = current.ID
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case renamedMsg:
		m.sidebar.setConversations(msg.conversations)
		return m, nil

	case deletedMsg:
		m.sidebar.setConversations(msg.conversations)
		if msg.hadCurrent {
			m.sidebar.currentID = ""
			m.suggestions = nil
			m.refreshViewport()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.sending && !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.renaming {
		switch msg.String() {
		case "enter":
			title := strings.TrimSpace(m.renameInput.Value())
			m.renaming = false
			if title == "" {
				return m, nil
			}
			return m, renameCmd(m.ctx, m.ctrl, m.renameID, title)
		case "esc":
			m.renaming = false
			return m, nil
		}
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.sidebar.moveUp()
		return m, nil
	case "down", "j":
		m.sidebar.moveDown()
		return m, nil
	case "enter":
		if conversation, ok := m.sidebar.selected(); ok {
			m.loading = true
			return m, tea.Batch(selectCmd(m.ctx, m.ctrl, conversation.ID), m.spinner.Tick)
		}
		return m, nil
	case "n":
		m.ctrl.Deselect()
		m.sidebar.currentID = ""
		m.suggestions = nil
		m.focus = focusInput
		m.input.Focus()
		m.refreshViewport()
		return m, nil
	case "r":
		if conversation, ok := m.sidebar.selected(); ok {
			m.renaming = true
			m.renameID = conversation.ID
			m.renameInput.SetValue(conversation.DisplayTitle())
			m.renameInput.Focus()
		}
		return m, nil
	case "d":
		if conversation, ok := m.sidebar.selected(); ok {
			wasCurrent := conversation.ID == m.sidebar.currentID
			return m, deleteCmd(m.ctx, m.ctrl, conversation.ID, wasCurrent)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Numbered suggestion chips: with an empty input, a digit resends
	// the corresponding suggestion.
	if len(m.suggestions) > 0 && strings.TrimSpace(m.input.Value()) == "" && len(key) == 1 {
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.suggestions) {
			return m.startSend(m.suggestions[n-1])
		}
	}

	if key == "enter" && !m.sending {
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		return m.startSend(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startSend(text string) (tea.Model, tea.Cmd) {
	m.sending = true
	m.suggestions = nil
	return m, tea.Batch(sendCmd(m.ctx, m.ctrl, text), m.spinner.Tick)
}

func (m *Model) resize() {
	threadWidth := m.width - m.sidebar.width - 3
	if threadWidth < 20 {
		threadWidth = 20
	}
	threadHeight := m.height - inputHeight - 3
	if threadHeight < 5 {
		threadHeight = 5
	}
	m.viewport.Width = threadWidth
	m.viewport.Height = threadHeight
	m.input.SetWidth(threadWidth)
	m.renameInput.Width = m.sidebar.width - 4
}

// refreshViewport re-renders the thread snapshot into the viewport,
// keeping the latest message in view.
func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(renderThread(m.ctrl.Thread(), m.suggestions, m.viewport.Width))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "starting..."
	}

	left := m.sidebar.view(m.height-1, time.Now())

	var inputView string
	switch {
	case m.renaming:
		inputView = "Rename: " + m.renameInput.View()
	default:
		inputView = m.input.View()
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		inputView,
		m.statusBar(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) statusBar() string {
	var status string
	switch {
	case m.sending:
		status = m.spinner.View() + " thinking..."
	case m.loading:
		status = m.spinner.View() + " loading..."
	default:
		status = string(m.ctrl.State())
	}
	hints := "enter: send · shift+enter: newline · tab: sidebar · n: new · r: rename · d: delete · ctrl+c: quit"
	return statusStyle.Render(m.userName + " · " + status + " · " + hints)
}

// Run drives the chat screen to completion. It reports ErrSessionExpired
// when an unauthorized response ended the session.
func Run(ctx context.Context, ctrl *chat.Controller, userName string, expiryCh <-chan struct{}) error {
	program := tea.NewProgram(New(ctx, ctrl, userName, expiryCh), tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.expired {
		return ErrSessionExpired
	}
	return nil
}
