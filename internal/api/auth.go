package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mkarpova/voyagerui/internal/session"
)

// authResponse covers both login and register. The backend sends the
// access token under both "token" and "access"; either one works.
type authResponse struct {
	Token   string           `json:"token"`
	Access  string           `json:"access"`
	Refresh string           `json:"refresh"`
	User    session.Identity `json:"user"`
	Message string           `json:"message"`
}

func (r *authResponse) bearer() string {
	if r.Token != "" {
		return r.Token
	}
	return r.Access
}

// RegistrationPayload is the signup request body.
type RegistrationPayload struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// Login authenticates and persists the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (session.Identity, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/users/login/", payload, &resp); err != nil {
		return session.Identity{}, err
	}
	token := resp.bearer()
	if token == "" {
		return session.Identity{}, errors.New("login response carried no token")
	}
	if err := c.session.Save(resp.User, token); err != nil {
		return session.Identity{}, fmt.Errorf("failed to persist session: %w", err)
	}
	slog.Info("logged in", slog.String("user", resp.User.Email))
	return resp.User, nil
}

// Register creates an account and persists the session it returns.
func (c *Client) Register(ctx context.Context, payload RegistrationPayload) (session.Identity, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/users/register/", payload, &resp); err != nil {
		return session.Identity{}, err
	}
	token := resp.bearer()
	if token == "" {
		return session.Identity{}, errors.New("register response carried no token")
	}
	if err := c.session.Save(resp.User, token); err != nil {
		return session.Identity{}, fmt.Errorf("failed to persist session: %w", err)
	}
	slog.Info("registered", slog.String("user", resp.User.Email))
	return resp.User, nil
}

// Logout tells the backend and clears the local session either way; a
// dead token on the server is no reason to stay logged in locally.
func (c *Client) Logout(ctx context.Context) error {
	reqErr := c.do(ctx, http.MethodPost, "/users/logout/", map[string]string{}, nil)
	if reqErr != nil {
		slog.Warn("logout request failed, clearing session anyway", "error", reqErr)
	}
	if err := c.session.Clear(); err != nil {
		return err
	}
	return reqErr
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (session.Identity, error) {
	var identity session.Identity
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &identity); err != nil {
		return session.Identity{}, err
	}
	return identity, nil
}
