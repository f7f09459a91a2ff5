package storage

import (
	"github.com/jmoiron/sqlx"
	"github.com/mkarpova/voyagerui/internal/chat"
)

// History bundles the two stores behind the controller's write-through
// cache interface.
type History struct {
	conversations *Conversations
	messages      *Messages
}

// NewHistory opens (or creates) both tables on the given database.
func NewHistory(db *sqlx.DB) (*History, error) {
	conversations, err := NewConversations(db)
	if err != nil {
		return nil, err
	}
	messages, err := NewMessages(db)
	if err != nil {
		return nil, err
	}
	return &History{conversations: conversations, messages: messages}, nil
}

func (h *History) SaveConversation(conversation chat.Conversation) error {
	return h.conversations.Write(conversation)
}

func (h *History) SaveMessage(message chat.Message) error {
	return h.messages.Write(message)
}

func (h *History) DeleteConversation(id string) error {
	return h.conversations.Delete(id)
}

func (h *History) Conversations() ([]chat.Conversation, error) {
	return h.conversations.Read()
}

func (h *History) ConversationMessages(id string) ([]chat.Message, error) {
	return h.messages.ReadByConversationID(id)
}
