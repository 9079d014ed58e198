package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRoot(t *testing.T) {
	root, ok := projectRoot()
	require.True(t, ok)

	_, err := os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}

func TestConfigForTests_ReadsEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg := ConfigForTests(t)

	assert.Equal(t, "memory", cfg.GetStorageDriver())
}
