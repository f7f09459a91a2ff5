package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/mkarpova/voyagerui/internal/chat"
)

// listEnvelope tolerates both response shapes the backend produces for
// listings: a bare JSON array and the paginated {"results": [...]}
// wrapper. Downstream code never sees the difference.
type listEnvelope[T any] struct {
	Items []T
}

func (e *listEnvelope[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &e.Items)
	}
	var wrapped struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	e.Items = wrapped.Results
	return nil
}

// conversationPayload is the wire shape of a chat session. Timestamps come
// under started_at/last_activity_at or created_at/updated_at depending on
// the endpoint variant.
type conversationPayload struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	SessionName    string           `json:"session_name"`
	StartedAt      time.Time        `json:"started_at"`
	LastActivityAt time.Time        `json:"last_activity_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	LatestMessages []messagePayload `json:"latest_messages"`
}

func (p conversationPayload) toConversation() chat.Conversation {
	title := p.Title
	if title == "" {
		title = p.SessionName
	}
	created := p.StartedAt
	if created.IsZero() {
		created = p.CreatedAt
	}
	updated := p.LastActivityAt
	if updated.IsZero() {
		updated = p.UpdatedAt
	}
	if updated.IsZero() {
		updated = created
	}
	return chat.Conversation{
		ID:        p.ID,
		Title:     title,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

// messagePayload is the wire shape of a stored message. The backend calls
// the assistant "bot"; everything non-user maps to the assistant sender.
type messagePayload struct {
	ID        string    `json:"id"`
	Session   string    `json:"session"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (p messagePayload) toMessage(conversationID string) chat.Message {
	if p.Session != "" {
		conversationID = p.Session
	}
	sender := chat.SenderAssistant
	if p.Sender == "user" {
		sender = chat.SenderUser
	}
	return chat.Message{
		ID:             p.ID,
		ConversationID: conversationID,
		Sender:         sender,
		Content:        p.Content,
		Timestamp:      p.Timestamp,
	}
}

func toMessages(payloads []messagePayload, conversationID string) []chat.Message {
	messages := make([]chat.Message, 0, len(payloads))
	for _, p := range payloads {
		messages = append(messages, p.toMessage(conversationID))
	}
	return messages
}

// sendResponsePayload is the assistant's reply. The reply text has shipped
// under several names across backend revisions; replyText tries them in
// order.
type sendResponsePayload struct {
	Message      string               `json:"message"`
	Response     string               `json:"response"`
	Reply        string               `json:"reply"`
	Content      string               `json:"content"`
	SessionID    string               `json:"session_id"`
	Suggestions  []string             `json:"suggestions"`
	Destinations []destinationPayload `json:"destinations"`
}

func (p sendResponsePayload) replyText() string {
	for _, candidate := range []string{p.Message, p.Response, p.Reply, p.Content} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// destinationPayload is a destination as embedded in chat replies and the
// destination listings.
type destinationPayload struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Description string   `json:"description"`
	Budget      string   `json:"budget"`
	Duration    int      `json:"duration"`
	Experiences []string `json:"experiences"`
}

func (p destinationPayload) toDestination() chat.Destination {
	return chat.Destination{
		ID:          p.ID,
		Name:        p.Name,
		State:       p.State,
		Country:     p.Country,
		Description: p.Description,
		Budget:      p.Budget,
		Duration:    p.Duration,
		Experiences: p.Experiences,
	}
}

func toDestinations(payloads []destinationPayload) []chat.Destination {
	if len(payloads) == 0 {
		return nil
	}
	destinations := make([]chat.Destination, 0, len(payloads))
	for _, p := range payloads {
		destinations = append(destinations, p.toDestination())
	}
	return destinations
}
