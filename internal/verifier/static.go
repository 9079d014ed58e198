package verifier

import (
	"context"
	"crypto/subtle"

	"github.com/nfrund/loginpage/internal/domain"
)

// The only pair the static verifier accepts by default.
const (
	DefaultEmail    = "test@mail.com"
	DefaultPassword = "password123"
)

// Static accepts exactly one email/password pair.
type Static struct {
	email    string
	password string
}

// NewStatic creates a verifier for the default pair.
func NewStatic() *Static {
	return NewStaticFor(DefaultEmail, DefaultPassword)
}

// NewStaticFor creates a verifier for an arbitrary pair.
func NewStaticFor(email, password string) *Static {
	return &Static{email: email, password: password}
}

// Verify compares both values exactly. Inputs are expected to be trimmed.
func (s *Static) Verify(ctx context.Context, email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if emailOK && passwordOK {
		return nil
	}
	return domain.ErrInvalidCredentials
}
