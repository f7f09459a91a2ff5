package chat

import (
	"context"
	"log/slog"
	"sync"
)

// State is the conversation view's lifecycle. A view starts Unloaded,
// moves through Loading to Loaded (or Error with an empty thread), and
// bounces Loaded -> Sending -> Loaded around each message round-trip.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateLoaded   State = "loaded"
	StateSending  State = "sending"
	StateError    State = "error"
)

// Backend is the request pipeline surface the controller drives. The API
// client implements it.
type Backend interface {
	ListConversations(ctx context.Context) ([]Conversation, error)
	GetConversation(ctx context.Context, id string) (*ConversationDetail, error)
	CreateConversation(ctx context.Context, title string) (*Conversation, error)
	RenameConversation(ctx context.Context, id, title string) (*Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	Messages(ctx context.Context, id string) ([]Message, error)
	SendMessage(ctx context.Context, id, text string) (*Reply, error)
}

// History is the optional local write-through cache. Loads and sends are
// mirrored into it so past threads survive offline starts.
type History interface {
	SaveConversation(conversation Conversation) error
	SaveMessage(message Message) error
	DeleteConversation(id string) error
	Conversations() ([]Conversation, error)
	ConversationMessages(id string) ([]Message, error)
}

// Controller orchestrates conversation loading, optimistic sends and list
// refreshes. It owns the conversation list, the current selection and its
// message thread; UI code only reads snapshots. The mutex is there because
// UI commands run the controller from their own goroutines.
type Controller struct {
	backend Backend
	history History

	mu            sync.Mutex
	conversations []Conversation
	current       *Conversation
	messages      []Message
	state         State
}

type ControllerOption func(*Controller)

// WithHistory attaches the local history cache.
func WithHistory(h History) ControllerOption {
	return func(c *Controller) { c.history = h }
}

// NewController creates a controller with no conversation selected.
func NewController(backend Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		state:   StateUnloaded,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh reloads the conversation summaries. A failed load degrades to an
// empty list; it never takes the view down.
func (c *Controller) Refresh(ctx context.Context) []Conversation {
	conversations, err := c.backend.ListConversations(ctx)
	if err != nil {
		slog.Error("failed to list conversations", "error", err)
		conversations = nil
	}

	c.mu.Lock()
	c.conversations = conversations
	c.mu.Unlock()

	if err == nil {
		c.cacheConversations(conversations)
	}
	return conversations
}

// Select makes a conversation current and loads its thread. If the message
// listing fails, messages embedded in the metadata payload are used; if
// the backend is unreachable entirely, the local cache is the last resort.
func (c *Controller) Select(ctx context.Context, id string) error {
	c.setState(StateLoading)

	detail, detailErr := c.backend.GetConversation(ctx, id)
	if detailErr != nil {
		slog.Error("failed to load conversation", "id", id, "error", detailErr)
		if cached, ok := c.cachedThread(id); ok {
			c.setThread(cached.Conversation, cached.Messages, StateLoaded)
			return nil
		}
		c.setThread(Conversation{ID: id}, nil, StateError)
		return detailErr
	}

	messages, err := c.backend.Messages(ctx, id)
	if err != nil {
		slog.Error("failed to load messages, falling back to embedded ones", "id", id, "error", err)
		messages = detail.Messages
	}

	c.setThread(detail.Conversation, messages, StateLoaded)
	c.cacheThread(detail.Conversation, messages)
	return nil
}

// Send posts a message to the current conversation, creating one first if
// none is selected. The user entry is appended optimistically; the reply
// (or an error-flagged entry when the round-trip fails) follows it. The
// conversation list is refreshed afterwards either way, since the server
// may have retitled the conversation.
func (c *Controller) Send(ctx context.Context, text string) (*Reply, error) {
	current, ok := c.Current()
	if !ok {
		created, err := c.backend.CreateConversation(ctx, "")
		if err != nil {
			slog.Error("failed to create conversation", "error", err)
			return nil, err
		}
		current = *created
		c.setThread(current, nil, StateLoaded)
		c.cacheConversations([]Conversation{current})
	}

	c.setState(StateSending)
	defer c.setState(StateLoaded)

	userMessage := NewUserMessage(current.ID, text)
	c.appendMessage(userMessage)

	reply, err := c.backend.SendMessage(ctx, current.ID, text)
	if err != nil {
		slog.Error("send failed", "conversation", current.ID, "error", err)
		c.appendMessage(NewErrorMessage(current.ID, err))
		c.Refresh(ctx)
		return nil, nil
	}

	c.appendMessage(reply.Message)
	c.cacheThread(current, []Message{userMessage, reply.Message})
	c.Refresh(ctx)
	return reply, nil
}

// Rename retitles a conversation and refreshes the list.
func (c *Controller) Rename(ctx context.Context, id, title string) error {
	updated, err := c.backend.RenameConversation(ctx, id, title)
	if err != nil {
		slog.Error("failed to rename conversation", "id", id, "error", err)
		return err
	}

	c.mu.Lock()
	if c.current != nil && c.current.ID == id {
		c.current.Title = updated.Title
	}
	c.mu.Unlock()

	c.Refresh(ctx)
	return nil
}

// Delete removes a conversation and refreshes the list. Deleting the
// current conversation navigates back to the unselected state.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.backend.DeleteConversation(ctx, id); err != nil {
		slog.Error("failed to delete conversation", "id", id, "error", err)
		return err
	}

	c.mu.Lock()
	if c.current != nil && c.current.ID == id {
		c.current = nil
		c.messages = nil
		c.state = StateUnloaded
	}
	c.mu.Unlock()

	if c.history != nil {
		if err := c.history.DeleteConversation(id); err != nil {
			slog.Error("failed to drop conversation from history", "id", id, "error", err)
		}
	}

	c.Refresh(ctx)
	return nil
}

// Deselect returns to the unselected state, ready to start a fresh
// conversation on the next send.
func (c *Controller) Deselect() {
	c.mu.Lock()
	c.current = nil
	c.messages = nil
	c.state = StateUnloaded
	c.mu.Unlock()
}

// Conversations returns a snapshot of the conversation list.
func (c *Controller) Conversations() []Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Conversation, len(c.conversations))
	copy(out, c.conversations)
	return out
}

// Current returns the selected conversation, if any.
func (c *Controller) Current() (Conversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Conversation{}, false
	}
	return *c.current, true
}

// Thread returns a snapshot of the current message list.
func (c *Controller) Thread() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// State returns the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) setThread(conversation Conversation, messages []Message, state State) {
	c.mu.Lock()
	c.current = &conversation
	c.messages = messages
	c.state = state
	c.mu.Unlock()
}

func (c *Controller) appendMessage(m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}

func (c *Controller) cacheConversations(conversations []Conversation) {
	if c.history == nil {
		return
	}
	for _, conversation := range conversations {
		if err := c.history.SaveConversation(conversation); err != nil {
			slog.Error("failed to cache conversation", "id", conversation.ID, "error", err)
		}
	}
}

func (c *Controller) cacheThread(conversation Conversation, messages []Message) {
	if c.history == nil {
		return
	}
	if err := c.history.SaveConversation(conversation); err != nil {
		slog.Error("failed to cache conversation", "id", conversation.ID, "error", err)
	}
	for _, m := range messages {
		if err := c.history.SaveMessage(m); err != nil {
			slog.Error("failed to cache message", "id", m.ID, "error", err)
		}
	}
}

func (c *Controller) cachedThread(id string) (*ConversationDetail, bool) {
	if c.history == nil {
		return nil, false
	}
	conversations, err := c.history.Conversations()
	if err != nil {
		return nil, false
	}
	for _, conversation := range conversations {
		if conversation.ID != id {
			continue
		}
		messages, err := c.history.ConversationMessages(id)
		if err != nil {
			return nil, false
		}
		slog.Info("serving conversation from local history", "id", id)
		return &ConversationDetail{Conversation: conversation, Messages: messages}, true
	}
	return nil, false
}
