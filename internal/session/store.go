package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// Store owns the persisted session: the bearer token and the identity it
// belongs to. It is created once at startup and injected into whatever
// needs it; there is no package-level session state.
type Store struct {
	path string

	mu       sync.Mutex
	token    string
	identity *Identity
}

// persisted mirrors the two keys the session is stored under on disk.
type persisted struct {
	Token string    `json:"token"`
	User  *Identity `json:"user,omitempty"`
}

// NewStore creates a session store backed by the given file.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the session from disk. A missing file simply means no one is
// logged in.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file %s: %w", s.path, err)
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	s.token = p.Token
	s.identity = p.User

	slog.Debug("session loaded",
		slog.Bool("authenticated", s.token != ""),
	)
	return nil
}

// Save replaces the current session and persists it.
func (s *Store) Save(identity Identity, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.identity = &identity

	data, err := json.MarshalIndent(persisted{Token: token, User: &identity}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", s.path, err)
	}

	slog.Debug("session saved",
		slog.String("user", identity.Email),
	)
	return nil
}

// Clear drops the session from memory and disk. Token and identity always
// go together; there is no state where one survives the other.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.identity = nil

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file %s: %w", s.path, err)
	}

	slog.Debug("session cleared")
	return nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Identity returns the current identity, if any.
func (s *Store) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// IsAuthenticated reports whether a bearer token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}
