package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/loginpage/internal/config"
)

// ConfigForTests applies the project's .env.test (when present) to the test
// environment and returns the resulting config.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	if root, ok := projectRoot(); ok {
		env, err := godotenv.Read(filepath.Join(root, ".env.test"))
		if err == nil {
			for key, value := range env {
				t.Setenv(key, value)
			}
		} else if !os.IsNotExist(err) {
			t.Fatalf("failed to load .env.test file: %v", err)
		}
	}
	return config.FromEnv()
}

// SurrealConfigForTests is ConfigForTests for SurrealDB integration tests.
// The test is skipped unless SURREAL_URL, SURREAL_NS and SURREAL_DB are set
// along with every key in extra.
func SurrealConfigForTests(t *testing.T, extra ...string) *config.Config {
	t.Helper()
	cfg := ConfigForTests(t)

	required := append([]string{"SURREAL_URL", "SURREAL_NS", "SURREAL_DB"}, extra...)
	for _, key := range required {
		if os.Getenv(key) == "" {
			t.Skipf("%s not set, skipping SurrealDB integration test", key)
		}
	}
	return cfg
}

// projectRoot walks up from the working directory to the directory holding go.mod.
func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}
