package storage

import (
	"context"
	"fmt"

	"github.com/nfrund/loginpage/internal/database"
	"github.com/nfrund/loginpage/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

const (
	kvSelect = "SELECT value FROM type::thing('kv', $key)"
	kvUpsert = "UPSERT type::thing('kv', $key) CONTENT { value: $value }"
	kvDelete = "DELETE type::thing('kv', $key)"
)

type kvRecord struct {
	Value string `json:"value"`
}

// SurrealStore keeps values as records of the kv table, one record per key.
type SurrealStore struct {
	db *surrealdb.DB
}

// NewSurrealStore creates a store over an already connected database.
func NewSurrealStore(db *surrealdb.DB) *SurrealStore {
	return &SurrealStore{db: db}
}

// Get selects the record for key.
func (s *SurrealStore) Get(ctx context.Context, key string) ([]byte, error) {
	rec, err := database.QueryOne[kvRecord](ctx, s.db, kvSelect, map[string]any{"key": key})
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return []byte(rec.Value), nil
}

// Set upserts the record for key.
func (s *SurrealStore) Set(ctx context.Context, key string, value []byte) error {
	params := map[string]any{"key": key, "value": string(value)}
	if err := database.Execute(ctx, s.db, kvUpsert, params); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes the record for key.
func (s *SurrealStore) Delete(ctx context.Context, key string) error {
	if err := database.Execute(ctx, s.db, kvDelete, map[string]any{"key": key}); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
