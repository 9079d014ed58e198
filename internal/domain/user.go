package domain

import "context"

// RememberedUserKey is the storage key under which the remembered user lives.
const RememberedUserKey = "rememberedUser"

// RememberedUser is what "Remember Me" persists across sessions.
type RememberedUser struct {
	Email string `json:"email"`
}

// CredentialVerifier decides whether an email/password pair may log in.
// Implementations return ErrInvalidCredentials for a rejected pair; any other
// error means the check itself could not be performed.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
}

// VerifierFunc adapts a plain function to the CredentialVerifier interface.
type VerifierFunc func(ctx context.Context, email, password string) error

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, email, password string) error {
	return f(ctx, email, password)
}
