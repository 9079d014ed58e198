package verifier

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/nfrund/loginpage/internal/config"
	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

func TestSurreal_DialFailureIsNotInvalidCredentials(t *testing.T) {
	v := NewSurreal(&config.Config{DBUrl: "ws://unused", DBNs: "ns", DBDb: "db", DBAccess: "account"})
	v.dial = func(ctx context.Context, url string) (*surrealdb.DB, error) {
		return nil, errors.New("connection refused")
	}

	err := v.Verify(context.Background(), "test@mail.com", "password123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSignInError(t *testing.T) {
	rejected := &surrealdb.RPCError{
		Code:    -32000,
		Message: "There was a problem with the database: There was a problem with authentication",
	}
	err := signInError(rejected)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	tests := []struct {
		name string
		err  error
	}{
		{"timeout", context.DeadlineExceeded},
		{"transport", errors.New("websocket: close 1006 (abnormal closure)")},
		{"other rpc error", &surrealdb.RPCError{Code: -32000, Message: "The namespace 'ns' does not exist"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := signInError(tt.err)
			assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// TestSurreal_Integration needs a SurrealDB with a record access method named
// by SURREAL_ACCESS and a user matching SURREAL_TEST_EMAIL/SURREAL_TEST_PASSWORD.
func TestSurreal_Integration(t *testing.T) {
	cfg := testutils.SurrealConfigForTests(t, "SURREAL_TEST_EMAIL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	v := NewSurreal(cfg)

	require.NoError(t, v.Verify(ctx, os.Getenv("SURREAL_TEST_EMAIL"), os.Getenv("SURREAL_TEST_PASSWORD")))
	assert.ErrorIs(t, v.Verify(ctx, os.Getenv("SURREAL_TEST_EMAIL"), "definitely-wrong"), domain.ErrInvalidCredentials)
}
