package chat

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is shown for conversations the server has not titled yet.
const DefaultTitle = "New conversation"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Conversation is a titled thread of messages between the user and the
// assistant.
type Conversation struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DisplayTitle falls back to a placeholder when the server left the title
// blank.
func (c Conversation) DisplayTitle() string {
	if c.Title == "" {
		return DefaultTitle
	}
	return c.Title
}

// Message is a single entry in a conversation. Suggestions are follow-up
// prompts the assistant attached to its reply; Err marks the synthetic
// entry shown when a send failed.
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	Sender         Sender    `db:"sender"`
	Content        string    `db:"content"`
	Timestamp      time.Time `db:"timestamp"`
	Suggestions    []string  `db:"-"`
	Err            bool      `db:"err"`
}

// NewUserMessage builds the optimistic local entry for an outgoing message.
// IDs are random, not clock-derived, so rapid sends cannot collide.
func NewUserMessage(conversationID, content string) Message {
	return Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         SenderUser,
		Content:        content,
		Timestamp:      time.Now(),
	}
}

// NewErrorMessage builds the error-flagged entry appended in place of an
// assistant reply when a send fails.
func NewErrorMessage(conversationID string, err error) Message {
	return Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         SenderAssistant,
		Content:        "Something went wrong: " + err.Error(),
		Timestamp:      time.Now(),
		Err:            true,
	}
}

// ConversationDetail is a conversation plus whatever messages the server
// embedded in its metadata payload. Used as a fallback when the message
// listing itself fails.
type ConversationDetail struct {
	Conversation
	Messages []Message
}

// Destination is the lightly-typed travel destination the assistant
// attaches to some replies.
type Destination struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	State       string   `json:"state"`
	Country     string   `json:"country,omitempty"`
	Description string   `json:"description,omitempty"`
	Budget      string   `json:"budget,omitempty"`
	Duration    int      `json:"duration,omitempty"`
	Experiences []string `json:"experiences,omitempty"`
}

// Reply is the normalized assistant response to a sent message.
type Reply struct {
	Message      Message
	Suggestions  []string
	Destinations []Destination
}
