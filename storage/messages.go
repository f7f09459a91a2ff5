package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mkarpova/voyagerui/internal/chat"
)

// Messages is the local mirror of conversation messages.
type Messages struct {
	db *sqlx.DB
}

// NewMessages creates the Messages store.
func NewMessages(db *sqlx.DB) (*Messages, error) {
	createMessagesTable := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender TEXT NOT NULL,
		content TEXT NOT NULL,
		err INTEGER NOT NULL DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (conversation_id) REFERENCES conversations(id)
	)
	`
	if _, err := db.Exec(createMessagesTable); err != nil {
		return nil, fmt.Errorf("failed to create messages table: %w", err)
	}

	return &Messages{db: db}, nil
}

// ReadByConversationID returns cached messages for one conversation,
// oldest first.
func (m *Messages) ReadByConversationID(conversationID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := m.db.Select(&messages, "SELECT id, conversation_id, sender, content, err, timestamp FROM messages WHERE conversation_id = ? ORDER BY timestamp ASC", conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages for conversation_id %s: %w", conversationID, err)
	}

	slog.Debug("read messages by conversation_id",
		slog.String("conversation_id", conversationID),
		slog.Int("count", len(messages)),
	)
	return messages, nil
}

// Write writes a new message to the cache.
func (m *Messages) Write(message chat.Message) error {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	insertQuery := "INSERT OR IGNORE INTO messages (id, conversation_id, sender, content, err, timestamp) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := m.db.Exec(insertQuery, message.ID, message.ConversationID, message.Sender, message.Content, message.Err, message.Timestamp); err != nil {
		return fmt.Errorf("failed to insert message %+v: %w", message, err)
	}

	slog.Debug("message added to messages",
		slog.String("id", message.ID),
		slog.String("conversation_id", message.ConversationID),
		slog.String("sender", string(message.Sender)),
		slog.Time("timestamp", message.Timestamp),
	)
	return nil
}

// Delete removes a message by id from the cache.
func (m *Messages) Delete(id string) error {
	if _, err := m.db.Exec("DELETE FROM messages WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete message by id %s: %w", id, err)
	}

	slog.Debug("message deleted from messages",
		slog.String("id", id),
	)
	return nil
}
