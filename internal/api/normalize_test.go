package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mkarpova/voyagerui/internal/chat"
)

func TestConversationPayloadTimestampVariants(t *testing.T) {
	started := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	active := started.Add(time.Hour)

	tests := []struct {
		name    string
		payload conversationPayload
		created time.Time
		updated time.Time
	}{
		{
			name:    "session variant",
			payload: conversationPayload{ID: "c1", StartedAt: started, LastActivityAt: active},
			created: started,
			updated: active,
		},
		{
			name:    "conversation variant",
			payload: conversationPayload{ID: "c1", CreatedAt: started, UpdatedAt: active},
			created: started,
			updated: active,
		},
		{
			name:    "created only",
			payload: conversationPayload{ID: "c1", CreatedAt: started},
			created: started,
			updated: started,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conversation := tt.payload.toConversation()
			require.Equal(t, tt.created, conversation.CreatedAt)
			require.Equal(t, tt.updated, conversation.UpdatedAt)
		})
	}
}

func TestConversationPayloadTitleFallsBackToSessionName(t *testing.T) {
	payload := conversationPayload{ID: "c1", SessionName: "August planning"}
	require.Equal(t, "August planning", payload.toConversation().Title)
}

func TestMessagePayloadSenderMapping(t *testing.T) {
	require.Equal(t, chat.SenderUser, messagePayload{Sender: "user"}.toMessage("c1").Sender)
	require.Equal(t, chat.SenderAssistant, messagePayload{Sender: "bot"}.toMessage("c1").Sender)
	require.Equal(t, chat.SenderAssistant, messagePayload{Sender: "assistant"}.toMessage("c1").Sender)
}

func TestListEnvelopeRejectsGarbage(t *testing.T) {
	var envelope listEnvelope[messagePayload]
	require.Error(t, json.Unmarshal([]byte(`"nope"`), &envelope))
}

func TestListEnvelopeEmptyResults(t *testing.T) {
	var envelope listEnvelope[messagePayload]
	require.NoError(t, json.Unmarshal([]byte(`{"count": 0, "results": []}`), &envelope))
	require.Empty(t, envelope.Items)
}

func TestReplyTextPrecedence(t *testing.T) {
	payload := sendResponsePayload{Message: "primary", Response: "secondary"}
	require.Equal(t, "primary", payload.replyText())
	require.Empty(t, sendResponsePayload{}.replyText())
}
