package verifier

import (
	"context"
	"testing"

	"github.com/nfrund/loginpage/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatic_Verify(t *testing.T) {
	v := NewStatic()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"exact pair", "test@mail.com", "password123", false},
		{"wrong password", "test@mail.com", "password124", true},
		{"wrong email", "wrong@mail.com", "password123", true},
		{"case matters", "TEST@mail.com", "password123", true},
		{"untrimmed input is not trimmed here", " test@mail.com", "password123", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(ctx, tt.email, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
