package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfrund/loginpage/internal/domain"
	"github.com/spf13/afero"
)

const valueExt = ".json"

// AferoStore keeps one file per key under a root directory of an afero
// filesystem. With afero.NewOsFs it is durable; with afero.NewMemMapFs it is
// an in-memory store for tests and the "memory" driver.
type AferoStore struct {
	fs  afero.Fs
	dir string
}

// NewAferoStore creates a new AferoStore rooted at dir.
func NewAferoStore(fs afero.Fs, dir string) *AferoStore {
	return &AferoStore{fs: fs, dir: dir}
}

// NewDiskStore is an AferoStore on the operating system filesystem.
func NewDiskStore(dir string) *AferoStore {
	return NewAferoStore(afero.NewOsFs(), dir)
}

// NewMemoryStore is an AferoStore on a fresh in-memory filesystem.
func NewMemoryStore() *AferoStore {
	return NewAferoStore(afero.NewMemMapFs(), "/")
}

// Get reads the value stored under key.
func (s *AferoStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return data, nil
}

// Set writes value under key, creating the root directory if needed.
// The value is written to a temporary file first and renamed into place.
func (s *AferoStore) Set(ctx context.Context, key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, value, 0o600); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to commit key %q: %w", key, err)
	}
	return nil
}

// Delete removes the file backing key.
func (s *AferoStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// path maps a key to its file, rejecting keys that would escape the root.
func (s *AferoStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+valueExt), nil
}
