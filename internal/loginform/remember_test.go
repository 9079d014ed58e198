package loginform_test

import (
	"context"
	"testing"

	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/loginform"
	"github.com/nfrund/loginpage/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRememberStore(t *testing.T) {
	store := storage.NewMemoryStore()
	remember := loginform.NewRememberStore(store)
	ctx := context.Background()

	_, err := remember.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, remember.Save(ctx, "test@mail.com"))
	user, err := remember.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test@mail.com", user.Email)

	require.NoError(t, remember.Forget(ctx))
	require.NoError(t, remember.Forget(ctx), "forgetting twice is fine")
	_, err = remember.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRememberStore_CorruptValue(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, domain.RememberedUserKey, []byte("not json")))

	_, err := loginform.NewRememberStore(store).Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
