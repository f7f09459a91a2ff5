package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mkarpova/voyagerui/internal/config"
	"github.com/mkarpova/voyagerui/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *session.Store, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessionFile := filepath.Join(t.TempDir(), "session.json")
	store := session.NewStore(sessionFile)
	cfg := &config.Config{BaseURL: srv.URL, RequestTimeout: 5 * time.Second}
	return NewClient(cfg, store, opts...), store, sessionFile
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", JSONContentType)
		_, _ = w.Write([]byte(`[]`))
	}))
	require.NoError(t, store.Save(session.Identity{Email: "a@b.com"}, "tok-123"))

	_, err := client.ListConversations(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestAuthPathsSkipBearer(t *testing.T) {
	var gotAuth string
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", JSONContentType)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "fresh",
			"user":  map[string]string{"id": "u1", "email": "a@b.com"},
		})
	}))
	// A stale token must not leak onto the login request.
	require.NoError(t, store.Save(session.Identity{}, "stale"))

	_, err := client.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestLoginPersistsSession(t *testing.T) {
	client, store, sessionFile := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/login/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access": "acc-token",
			"user":   map[string]string{"id": "u1", "email": "a@b.com", "name": "Ann"},
		})
	}))

	identity, err := client.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "Ann", identity.Name)
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "acc-token", store.Token())
	require.FileExists(t, sessionFile)
}

func TestUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	hookFired := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "token expired"}`))
	})
	client, store, sessionFile := newTestClient(t, handler, WithUnauthorizedHook(func() { hookFired = true }))
	require.NoError(t, store.Save(session.Identity{Email: "a@b.com"}, "dead-token"))

	_, err := client.ListConversations(context.Background())
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	require.True(t, hookFired)
	require.False(t, store.IsAuthenticated())
	require.NoFileExists(t, sessionFile)
}

func TestUnauthorizedOnLoginLeavesSessionAlone(t *testing.T) {
	hookFired := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid credentials"}`))
	})
	client, _, _ := newTestClient(t, handler, WithUnauthorizedHook(func() { hookFired = true }))

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	require.False(t, hookFired)
}

func TestListConversationsEnvelopeShapes(t *testing.T) {
	payload := `{"id": "c1", "title": "Goa trip", "started_at": "2026-08-20T10:00:00Z", "last_activity_at": "2026-08-21T09:00:00Z"}`

	tests := []struct {
		name string
		body string
	}{
		{name: "bare list", body: `[` + payload + `]`},
		{name: "wrapped results", body: `{"count": 1, "results": [` + payload + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			require.NoError(t, store.Save(session.Identity{}, "tok"))

			conversations, err := client.ListConversations(context.Background())
			require.NoError(t, err)
			require.Len(t, conversations, 1)
			require.Equal(t, "c1", conversations[0].ID)
			require.Equal(t, "Goa trip", conversations[0].Title)
			require.Equal(t, time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC), conversations[0].UpdatedAt)
		})
	}
}

func TestSendMessageReplyFieldFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message", body: `{"message": "Try Goa!", "suggestions": ["Tell me more"]}`, want: "Try Goa!"},
		{name: "response", body: `{"response": "Try Kerala!"}`, want: "Try Kerala!"},
		{name: "reply", body: `{"reply": "Try Manali!"}`, want: "Try Manali!"},
		{name: "content", body: `{"content": "Try Jaipur!"}`, want: "Try Jaipur!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/chatbot/sessions/c1/messages/", r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				require.Equal(t, "hello", body["message"])
				require.Equal(t, "hello", body["content"])
				_, _ = w.Write([]byte(tt.body))
			}))
			require.NoError(t, store.Save(session.Identity{}, "tok"))

			reply, err := client.SendMessage(context.Background(), "c1", "hello")
			require.NoError(t, err)
			require.Equal(t, tt.want, reply.Message.Content)
		})
	}
}

func TestSendMessageWithoutReplyTextFails(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"session_id": "c1"}`))
	}))
	require.NoError(t, store.Save(session.Identity{}, "tok"))

	_, err := client.SendMessage(context.Background(), "c1", "hello")
	require.Error(t, err)
}

func TestFieldErrorsDecoded(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"email": ["Email already taken"], "password": ["Too short"], "non_field_errors": ["Fix the form"]}`))
	}))

	_, err := client.Register(context.Background(), RegistrationPayload{Email: "a@b.com"})
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, []string{"Email already taken"}, apiErr.Fields["email"])
	require.Equal(t, []string{"Too short"}, apiErr.Fields["password"])
	require.Equal(t, "Fix the form", apiErr.Message)
}

func TestNetworkErrorIsNotAPIError(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	cfg := &config.Config{BaseURL: "http://127.0.0.1:1", RequestTimeout: 500 * time.Millisecond}
	client := NewClient(cfg, store)

	_, err := client.ListConversations(context.Background())
	require.Error(t, err)
	_, ok := AsAPIError(err)
	require.False(t, ok)
}

func TestLogoutClearsSessionEvenWhenRequestFails(t *testing.T) {
	client, store, sessionFile := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Invalid or expired token"}`))
	}))
	require.NoError(t, store.Save(session.Identity{Email: "a@b.com"}, "tok"))

	err := client.Logout(context.Background())
	require.Error(t, err)
	require.False(t, store.IsAuthenticated())

	_, statErr := os.Stat(sessionFile)
	require.True(t, os.IsNotExist(statErr))
}

func TestGetConversationEmbeddedMessages(t *testing.T) {
	client, store, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": "c1",
			"title": "Beach ideas",
			"latest_messages": [
				{"id": "m1", "session": "c1", "sender": "user", "content": "beaches?"},
				{"id": "m2", "session": "c1", "sender": "bot", "content": "Goa, Gokarna..."}
			]
		}`))
	}))
	require.NoError(t, store.Save(session.Identity{}, "tok"))

	detail, err := client.GetConversation(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, "Beach ideas", detail.Title)
	require.Len(t, detail.Messages, 2)
	require.Equal(t, "assistant", string(detail.Messages[1].Sender))
}
