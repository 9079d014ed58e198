package storage

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/loginpage/internal/database"
	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSurrealStore_Integration runs against a live SurrealDB configured
// through the environment or .env.test.
func TestSurrealStore_Integration(t *testing.T) {
	cfg := testutils.SurrealConfigForTests(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	defer db.Close(ctx)

	store := NewSurrealStore(db)
	key := "test_" + time.Now().Format("150405.000000")

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, key, []byte(`{"email":"test@mail.com"}`)))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"test@mail.com"}`, string(got))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
