package auth

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkarpova/voyagerui/internal/api"
)

func TestLoginFormValidation(t *testing.T) {
	tests := []struct {
		name       string
		form       LoginForm
		wantFields []string
	}{
		{name: "valid", form: LoginForm{Email: "a@b.com", Password: "secret"}},
		{name: "missing email", form: LoginForm{Password: "secret"}, wantFields: []string{"email"}},
		{name: "bad email", form: LoginForm{Email: "nope", Password: "secret"}, wantFields: []string{"email"}},
		{name: "missing password", form: LoginForm{Email: "a@b.com"}, wantFields: []string{"password"}},
		{name: "both missing", form: LoginForm{}, wantFields: []string{"email", "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.form.Validate()
			if len(tt.wantFields) == 0 {
				require.True(t, errs.Empty())
				return
			}
			require.Len(t, errs.Fields, len(tt.wantFields))
			for _, field := range tt.wantFields {
				require.NotEmpty(t, errs.For(field))
			}
		})
	}
}

func TestRegistrationFormValidation(t *testing.T) {
	valid := RegistrationForm{
		Email:           "a@b.com",
		Username:        "ann",
		Password:        "longenough",
		PasswordConfirm: "longenough",
	}
	require.True(t, valid.Validate().Empty())

	shortPassword := valid
	shortPassword.Password = "short"
	shortPassword.PasswordConfirm = "short"
	errs := shortPassword.Validate()
	require.NotEmpty(t, errs.For("password"))

	mismatch := valid
	mismatch.PasswordConfirm = "different-pw"
	errs = mismatch.Validate()
	require.NotEmpty(t, errs.For("password_confirm"))
}

func TestMapErrorFieldLevel(t *testing.T) {
	err := &api.APIError{
		StatusCode: http.StatusBadRequest,
		Fields: map[string][]string{
			"email":    {"Email already taken"},
			"password": {"Too weak"},
		},
	}
	errs := MapError(err)
	require.Equal(t, "Email already taken", errs.For("email"))
	require.Equal(t, "Too weak", errs.For("password"))
	require.Empty(t, errs.General)
}

func TestMapErrorUnmappedFieldFallsBackToBanner(t *testing.T) {
	err := &api.APIError{
		StatusCode: http.StatusBadRequest,
		Fields:     map[string][]string{"phone_number": {"Invalid"}},
	}
	errs := MapError(err)
	require.Empty(t, errs.Fields["phone_number"])
	require.Equal(t, "Invalid", errs.General)
}

func TestMapErrorGeneralMessage(t *testing.T) {
	err := &api.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	errs := MapError(err)
	require.Equal(t, "Invalid credentials", errs.General)
}

func TestMapErrorNetworkFailure(t *testing.T) {
	errs := MapError(errors.New("dial tcp: connection refused"))
	require.NotEmpty(t, errs.General)
	require.Empty(t, errs.Fields)
}
