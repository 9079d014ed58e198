package loginform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/loginform"
	"github.com/nfrund/loginpage/internal/verifier"
	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	v := loginform.NewValidator(verifier.NewStatic())
	ctx := context.Background()

	tests := []struct {
		name      string
		email     string
		password  string
		wantKind  loginform.OutcomeKind
		wantEmail string
	}{
		{"both empty", "", "", loginform.MissingFields, ""},
		{"email empty", "", "password123", loginform.MissingFields, ""},
		{"password empty", "test@mail.com", "", loginform.MissingFields, ""},
		{"whitespace only email", "   ", "password123", loginform.MissingFields, ""},
		{"whitespace only password", "test@mail.com", " \t ", loginform.MissingFields, ""},
		{"missing fields beats malformed email", "invalidemail", "   ", loginform.MissingFields, ""},
		{"no at sign", "invalidemail", "123456", loginform.InvalidEmailFormat, ""},
		{"no dot in domain", "user@mail", "123456", loginform.InvalidEmailFormat, ""},
		{"nothing after dot", "user@mail.", "123456", loginform.InvalidEmailFormat, ""},
		{"empty local part", "@mail.com", "123456", loginform.InvalidEmailFormat, ""},
		{"two at signs", "a@b@mail.com", "123456", loginform.InvalidEmailFormat, ""},
		{"inner whitespace", "te st@mail.com", "123456", loginform.InvalidEmailFormat, ""},
		{"inner no-break space", "te\u00a0st@mail.com", "password123", loginform.InvalidEmailFormat, ""},
		{"inner vertical tab", "te\vst@mail.com", "password123", loginform.InvalidEmailFormat, ""},
		{"inner em space", "te\u2003st@mail.com", "password123", loginform.InvalidEmailFormat, ""},
		{"space in domain", "test@ma\u00a0il.com", "password123", loginform.InvalidEmailFormat, ""},
		{"wrong credentials", "wrong@mail.com", "wrongpass", loginform.InvalidCredentials, ""},
		{"right email wrong password", "test@mail.com", "password12", loginform.InvalidCredentials, ""},
		{"exact credentials", "test@mail.com", "password123", loginform.Success, "test@mail.com"},
		{"padded credentials", "  test@mail.com  ", "  password123  ", loginform.Success, "test@mail.com"},
		{"leading byte order mark", "\ufefftest@mail.com", "password123", loginform.Success, "test@mail.com"},
		{"unicode padding", "\u00a0test@mail.com\u2003", "\u3000password123\u2028", loginform.Success, "test@mail.com"},
		{"only unicode whitespace", "\u00a0\ufeff", "password123", loginform.MissingFields, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(ctx, tt.email, tt.password)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantEmail, got.Email)
		})
	}
}

func TestValidator_VerifierReceivesTrimmedValues(t *testing.T) {
	var gotEmail, gotPassword string
	v := loginform.NewValidator(domain.VerifierFunc(func(ctx context.Context, email, password string) error {
		gotEmail, gotPassword = email, password
		return nil
	}))

	out := v.Validate(context.Background(), "\tsomeone@example.org\n", "  secret ")

	assert.True(t, out.OK())
	assert.Equal(t, "someone@example.org", gotEmail)
	assert.Equal(t, "secret", gotPassword)
}

func TestValidator_VerifierErrorsAreInvalidCredentials(t *testing.T) {
	v := loginform.NewValidator(domain.VerifierFunc(func(ctx context.Context, email, password string) error {
		return errors.New("database unavailable")
	}))

	out := v.Validate(context.Background(), "test@mail.com", "password123")

	assert.Equal(t, loginform.InvalidCredentials, out.Kind)
}

func TestIsEmail(t *testing.T) {
	assert.True(t, loginform.IsEmail("a@b.c"))
	assert.True(t, loginform.IsEmail("first.last@sub.example.co.uk"))
	assert.False(t, loginform.IsEmail("a@b"))
	assert.False(t, loginform.IsEmail(" a@b.c"))
}

func TestOutcomeKind_StatusMessage(t *testing.T) {
	assert.Equal(t, "Please fill in all fields.", loginform.MissingFields.StatusMessage())
	assert.Equal(t, "Enter a valid email.", loginform.InvalidEmailFormat.StatusMessage())
	assert.Equal(t, "Invalid email or password.", loginform.InvalidCredentials.StatusMessage())
	assert.Equal(t, "Login successful! Redirecting...", loginform.Success.StatusMessage())
	assert.Empty(t, loginform.OutcomeKind(0).StatusMessage())
}

func TestIsSpace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\v', '\f', '\r', '\u00a0', '\u2003', '\u2028', '\u3000', '\ufeff'} {
		assert.True(t, loginform.IsSpace(r), "%U", r)
	}
	for _, r := range []rune{'a', '@', '.', '\u0085', '\u200b'} {
		assert.False(t, loginform.IsSpace(r), "%U", r)
	}
	assert.Equal(t, "a b", loginform.Trim("\ufeff\u00a0a b\v"))
}
