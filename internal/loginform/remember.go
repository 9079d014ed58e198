package loginform

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/storage"
)

// RememberStore persists the remembered user as JSON under
// domain.RememberedUserKey.
type RememberStore struct {
	store storage.Store
}

// NewRememberStore creates a RememberStore on top of a key-value store.
func NewRememberStore(store storage.Store) *RememberStore {
	return &RememberStore{store: store}
}

// Save records email as the remembered user.
func (r *RememberStore) Save(ctx context.Context, email string) error {
	data, err := json.Marshal(domain.RememberedUser{Email: email})
	if err != nil {
		return fmt.Errorf("failed to encode remembered user: %w", err)
	}
	return r.store.Set(ctx, domain.RememberedUserKey, data)
}

// Load returns the remembered user, or domain.ErrNotFound when there is none.
func (r *RememberStore) Load(ctx context.Context) (*domain.RememberedUser, error) {
	data, err := r.store.Get(ctx, domain.RememberedUserKey)
	if err != nil {
		return nil, err
	}
	var user domain.RememberedUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode remembered user: %w", err)
	}
	return &user, nil
}

// Forget removes the remembered user if there is one.
func (r *RememberStore) Forget(ctx context.Context) error {
	return r.store.Delete(ctx, domain.RememberedUserKey)
}
