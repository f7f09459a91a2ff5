package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/mkarpova/voyagerui/internal/api"
	"github.com/mkarpova/voyagerui/internal/session"
)

// maxAttempts bounds how often a rejected form is re-shown before giving
// up.
const maxAttempts = 3

// RunLogin shows the interactive login form, submits it, and re-shows it
// with field errors attached until the backend accepts or the user runs
// out of attempts.
func RunLogin(ctx context.Context, client *api.Client) (session.Identity, error) {
	var form LoginForm
	var errs FieldErrors

	for attempt := 0; attempt < maxAttempts; attempt++ {
		prompt := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Description(errs.For("email")).
					Value(&form.Email),
				huh.NewInput().
					Title("Password").
					Description(errs.For("password")).
					EchoMode(huh.EchoModePassword).
					Value(&form.Password),
			).Title(banner("Sign in", errs)),
		)
		if err := prompt.Run(); err != nil {
			return session.Identity{}, fmt.Errorf("login prompt aborted: %w", err)
		}

		if errs = form.Validate(); !errs.Empty() {
			continue
		}

		identity, err := client.Login(ctx, form.Email, form.Password)
		if err == nil {
			return identity, nil
		}
		errs = MapError(err)
	}
	return session.Identity{}, errors.New("too many failed login attempts")
}

// RunRegister shows the interactive signup form with the same retry
// behavior as RunLogin.
func RunRegister(ctx context.Context, client *api.Client) (session.Identity, error) {
	var form RegistrationForm
	var errs FieldErrors

	for attempt := 0; attempt < maxAttempts; attempt++ {
		prompt := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Description(errs.For("email")).
					Value(&form.Email),
				huh.NewInput().
					Title("Username").
					Description(errs.For("username")).
					Value(&form.Username),
				huh.NewInput().
					Title("First name").
					Value(&form.FirstName),
				huh.NewInput().
					Title("Last name").
					Value(&form.LastName),
				huh.NewInput().
					Title("Password").
					Description(errs.For("password")).
					EchoMode(huh.EchoModePassword).
					Value(&form.Password),
				huh.NewInput().
					Title("Confirm password").
					Description(errs.For("password_confirm")).
					EchoMode(huh.EchoModePassword).
					Value(&form.PasswordConfirm),
			).Title(banner("Create account", errs)),
		)
		if err := prompt.Run(); err != nil {
			return session.Identity{}, fmt.Errorf("signup prompt aborted: %w", err)
		}

		if errs = form.Validate(); !errs.Empty() {
			continue
		}

		identity, err := client.Register(ctx, form.Payload())
		if err == nil {
			return identity, nil
		}
		errs = MapError(err)
	}
	return session.Identity{}, errors.New("too many failed signup attempts")
}

func banner(title string, errs FieldErrors) string {
	if errs.General == "" {
		return title
	}
	return title + " — " + errs.General
}
