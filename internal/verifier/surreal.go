package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nfrund/loginpage/internal/config"
	"github.com/nfrund/loginpage/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// Surreal checks credentials with SurrealDB record access. Each check signs
// in on its own short-lived connection so the application's root connection
// keeps its session.
type Surreal struct {
	url    string
	ns     string
	db     string
	access string
	dial   func(ctx context.Context, url string) (*surrealdb.DB, error)
}

// NewSurreal creates a verifier from the SurrealDB settings in cfg.
func NewSurreal(cfg config.Provider) *Surreal {
	return &Surreal{
		url:    cfg.GetDBUrl(),
		ns:     cfg.GetDBNs(),
		db:     cfg.GetDBDb(),
		access: cfg.GetDBAccess(),
		dial:   surrealdb.FromEndpointURLString,
	}
}

// Verify signs in as the record user identified by email.
func (s *Surreal) Verify(ctx context.Context, email, password string) error {
	conn, err := s.dial(ctx, s.url)
	if err != nil {
		return fmt.Errorf("failed to connect to surrealdb: %w", err)
	}
	defer conn.Close(ctx)

	data := map[string]interface{}{
		"ns":       s.ns,
		"db":       s.db,
		"ac":       s.access,
		"email":    email,
		"password": password,
	}
	if _, err := conn.SignIn(ctx, data); err != nil {
		return signInError(err)
	}
	return nil
}

// signInError maps a rejected record sign-in to ErrInvalidCredentials. Any
// other failure (transport, timeout, unknown namespace) is returned as is so
// it gets logged.
func signInError(err error) error {
	var rpcErr *surrealdb.RPCError
	if errors.As(err, &rpcErr) && strings.Contains(rpcErr.Error(), "problem with authentication") {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	return fmt.Errorf("surrealdb sign in failed: %w", err)
}
