package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mkarpova/voyagerui/internal/chat"
)

const conversationsPath = "/chatbot/sessions/"

// ListConversations returns the user's conversation summaries.
func (c *Client) ListConversations(ctx context.Context) ([]chat.Conversation, error) {
	var envelope listEnvelope[conversationPayload]
	if err := c.do(ctx, http.MethodGet, conversationsPath, nil, &envelope); err != nil {
		return nil, err
	}
	conversations := make([]chat.Conversation, 0, len(envelope.Items))
	for _, p := range envelope.Items {
		conversations = append(conversations, p.toConversation())
	}
	return conversations, nil
}

// GetConversation fetches one conversation's metadata, including whatever
// recent messages the server embedded in it.
func (c *Client) GetConversation(ctx context.Context, id string) (*chat.ConversationDetail, error) {
	var payload conversationPayload
	if err := c.do(ctx, http.MethodGet, conversationsPath+id+"/", nil, &payload); err != nil {
		return nil, err
	}
	return &chat.ConversationDetail{
		Conversation: payload.toConversation(),
		Messages:     toMessages(payload.LatestMessages, payload.ID),
	}, nil
}

// CreateConversation starts a new conversation, optionally titled.
func (c *Client) CreateConversation(ctx context.Context, title string) (*chat.Conversation, error) {
	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	var payload conversationPayload
	if err := c.do(ctx, http.MethodPost, conversationsPath, body, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" {
		return nil, errors.New("create conversation response carried no id")
	}
	conversation := payload.toConversation()
	return &conversation, nil
}

// RenameConversation updates a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, id, title string) (*chat.Conversation, error) {
	var payload conversationPayload
	if err := c.do(ctx, http.MethodPatch, conversationsPath+id+"/", map[string]string{"title": title}, &payload); err != nil {
		return nil, err
	}
	conversation := payload.toConversation()
	if conversation.ID == "" {
		conversation.ID = id
	}
	if conversation.Title == "" {
		conversation.Title = title
	}
	return &conversation, nil
}

// DeleteConversation removes a conversation.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, conversationsPath+id+"/", nil, nil)
}

// Messages returns a conversation's full message history, oldest first.
func (c *Client) Messages(ctx context.Context, id string) ([]chat.Message, error) {
	var envelope listEnvelope[messagePayload]
	if err := c.do(ctx, http.MethodGet, conversationsPath+id+"/messages/", nil, &envelope); err != nil {
		return nil, err
	}
	return toMessages(envelope.Items, id), nil
}

// SendMessage posts a user message and returns the normalized assistant
// reply.
func (c *Client) SendMessage(ctx context.Context, id, text string) (*chat.Reply, error) {
	body := map[string]string{"message": text, "content": text}
	var payload sendResponsePayload
	if err := c.do(ctx, http.MethodPost, conversationsPath+id+"/messages/", body, &payload); err != nil {
		return nil, err
	}

	replyText := payload.replyText()
	if replyText == "" {
		return nil, fmt.Errorf("reply for conversation %s carried no text", id)
	}
	conversationID := payload.SessionID
	if conversationID == "" {
		conversationID = id
	}
	return &chat.Reply{
		Message: chat.Message{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			Sender:         chat.SenderAssistant,
			Content:        replyText,
			Timestamp:      time.Now(),
			Suggestions:    payload.Suggestions,
		},
		Suggestions:  payload.Suggestions,
		Destinations: toDestinations(payload.Destinations),
	}, nil
}
