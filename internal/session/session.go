package session

import "strings"

// Identity is the authenticated user as the backend reports it.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName picks the most specific non-empty name the backend gave us.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if full := strings.TrimSpace(i.FirstName + " " + i.LastName); full != "" {
		return full
	}
	if i.Username != "" {
		return i.Username
	}
	return i.Email
}
