package storage

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/mkarpova/voyagerui/internal/chat"
)

// Conversations is the local mirror of conversation summaries.
type Conversations struct {
	db *sqlx.DB
}

// NewConversations creates the Conversations store.
func NewConversations(db *sqlx.DB) (*Conversations, error) {
	createConversationsTable := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
	`
	if _, err := db.Exec(createConversationsTable); err != nil {
		return nil, fmt.Errorf("failed to create conversations table: %w", err)
	}

	return &Conversations{db: db}, nil
}

// Read returns all cached conversations, most recently active first.
func (c *Conversations) Read() ([]chat.Conversation, error) {
	var conversations []chat.Conversation
	err := c.db.Select(&conversations, "SELECT id, title, created_at, updated_at FROM conversations ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get conversations: %w", err)
	}

	slog.Debug("read conversations",
		slog.Int("count", len(conversations)),
	)
	return conversations, nil
}

// Write upserts a conversation into the cache.
func (c *Conversations) Write(conversation chat.Conversation) error {
	upsertQuery := `
	INSERT INTO conversations (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at
	`
	if _, err := c.db.Exec(upsertQuery, conversation.ID, conversation.Title, conversation.CreatedAt, conversation.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert conversation %+v: %w", conversation, err)
	}

	slog.Debug("conversation added to conversations",
		slog.String("id", conversation.ID),
		slog.String("title", conversation.Title),
	)
	return nil
}

// Delete removes a conversation and its cached messages.
func (c *Conversations) Delete(id string) error {
	if _, err := c.db.Exec("DELETE FROM messages WHERE conversation_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete messages for conversation %s: %w", id, err)
	}
	if _, err := c.db.Exec("DELETE FROM conversations WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete conversation by id %s: %w", id, err)
	}

	slog.Debug("conversation deleted from conversations",
		slog.String("id", id),
	)
	return nil
}
