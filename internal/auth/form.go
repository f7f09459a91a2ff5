package auth

import (
	"strings"

	"github.com/mkarpova/voyagerui/internal/api"
)

const minPasswordLength = 8

// FieldErrors carries per-field validation messages plus a general banner
// for anything that did not map to a field.
type FieldErrors struct {
	Fields  map[string]string
	General string
}

// Empty reports whether there is nothing to show.
func (e FieldErrors) Empty() bool {
	return len(e.Fields) == 0 && e.General == ""
}

func (e *FieldErrors) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, taken := e.Fields[field]; !taken {
		e.Fields[field] = msg
	}
}

// For returns the message attached to a form field, if any.
func (e FieldErrors) For(field string) string {
	return e.Fields[field]
}

// LoginForm is the pair of credentials the login screen collects.
type LoginForm struct {
	Email    string
	Password string
}

// Validate runs the client-side checks made before submission.
func (f LoginForm) Validate() FieldErrors {
	var errs FieldErrors
	if err := validateEmail(f.Email); err != "" {
		errs.add("email", err)
	}
	if strings.TrimSpace(f.Password) == "" {
		errs.add("password", "Password is required")
	}
	return errs
}

// RegistrationForm is what the signup screen collects.
type RegistrationForm struct {
	Email           string
	Username        string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// Validate runs the client-side checks made before submission.
func (f RegistrationForm) Validate() FieldErrors {
	var errs FieldErrors
	if err := validateEmail(f.Email); err != "" {
		errs.add("email", err)
	}
	if strings.TrimSpace(f.Username) == "" {
		errs.add("username", "Username is required")
	}
	if len(f.Password) < minPasswordLength {
		errs.add("password", "Password must be at least 8 characters")
	}
	if f.Password != f.PasswordConfirm {
		errs.add("password_confirm", "Passwords don't match")
	}
	return errs
}

// Payload converts the form into the request body the pipeline sends.
func (f RegistrationForm) Payload() api.RegistrationPayload {
	return api.RegistrationPayload{
		Email:           strings.TrimSpace(f.Email),
		Username:        strings.TrimSpace(f.Username),
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		Password:        f.Password,
		PasswordConfirm: f.PasswordConfirm,
	}
}

func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required"
	}
	at := strings.Index(email, "@")
	if at < 1 || !strings.Contains(email[at+1:], ".") {
		return "Enter a valid email address"
	}
	return ""
}

// MapError turns a submission failure into form errors: backend
// field-level messages land on the matching field, everything else becomes
// the general banner.
func MapError(err error) FieldErrors {
	var errs FieldErrors
	apiErr, ok := api.AsAPIError(err)
	if !ok {
		errs.General = "Could not reach the server. Please try again."
		return errs
	}

	for field, msgs := range apiErr.Fields {
		if len(msgs) == 0 {
			continue
		}
		switch field {
		case "email", "username", "password", "password_confirm", "first_name", "last_name":
			errs.add(field, msgs[0])
		default:
			if errs.General == "" {
				errs.General = msgs[0]
			}
		}
	}
	if errs.Empty() {
		switch {
		case apiErr.Message != "":
			errs.General = apiErr.Message
		case apiErr.Detail != "":
			errs.General = apiErr.Detail
		default:
			errs.General = "Request failed. Please try again."
		}
	}
	return errs
}
