package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/fsnotify/fsnotify"
	"github.com/nfrund/loginpage/internal/domain"
)

// Script limits.
const (
	DefaultScriptTimeout = 500 * time.Millisecond
	defaultMaxAllocs     = 10000
)

// Variables exchanged with a verifier script. The script reads email and
// password and must assign a boolean to valid.
const (
	scriptVarEmail    = "email"
	scriptVarPassword = "password"
	scriptVarValid    = "valid"
)

// allowedModules are the tengo stdlib modules a verifier script may import.
var allowedModules = []string{"text", "fmt", "math"}

// Script checks credentials by running a tengo script, e.g.
//
//	valid := email == "test@mail.com" && password == "password123"
//
// The script is compiled once and cloned for each check. When watched, the
// file is recompiled whenever it changes on disk.
type Script struct {
	path    string
	timeout time.Duration

	mu       sync.RWMutex
	compiled *tengo.Compiled
}

// NewScriptFromFile reads and compiles the script at path.
func NewScriptFromFile(path string) (*Script, error) {
	s := &Script{path: path, timeout: DefaultScriptTimeout}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewScriptFromSource compiles an in-memory script. It cannot be reloaded.
func NewScriptFromSource(src string) (*Script, error) {
	compiled, err := compileScript([]byte(src))
	if err != nil {
		return nil, err
	}
	return &Script{timeout: DefaultScriptTimeout, compiled: compiled}, nil
}

// SetTimeout bounds a single script run.
func (s *Script) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Reload re-reads and recompiles the script file. On failure the previously
// compiled script stays in use.
func (s *Script) Reload() error {
	if s.path == "" {
		return errors.New("script verifier has no file to reload")
	}
	src, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read verifier script: %w", err)
	}
	compiled, err := compileScript(src)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.compiled = compiled
	s.mu.Unlock()
	slog.Debug("Verifier script compiled", "path", s.path)
	return nil
}

// Verify runs the script for one email/password pair.
func (s *Script) Verify(ctx context.Context, email, password string) error {
	s.mu.RLock()
	run := s.compiled.Clone()
	s.mu.RUnlock()

	if err := run.Set(scriptVarEmail, email); err != nil {
		return fmt.Errorf("failed to set script email: %w", err)
	}
	if err := run.Set(scriptVarPassword, password); err != nil {
		return fmt.Errorf("failed to set script password: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := run.RunContext(runCtx); err != nil {
		return fmt.Errorf("verifier script failed: %w", err)
	}

	if !run.IsDefined(scriptVarValid) || !run.Get(scriptVarValid).Bool() {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// Watch reloads the script whenever its file is written or replaced, until
// ctx is cancelled. The parent directory is watched so that editors which
// save by rename are picked up too.
func (s *Script) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("script verifier has no file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch verifier script directory: %w", err)
	}

	go s.watchLoop(ctx, watcher)
	slog.Debug("Watching verifier script for changes", "path", s.path)
	return nil
}

func (s *Script) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				slog.Error("Failed to reload verifier script", "path", s.path, "error", err)
			} else {
				slog.Info("Reloaded verifier script", "path", s.path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Verifier script watcher error", "error", err)
		}
	}
}

func compileScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(allowedModules...))
	script.SetMaxAllocs(defaultMaxAllocs)

	// Declare the inputs so the compiler knows them; values are set per run.
	if err := script.Add(scriptVarEmail, ""); err != nil {
		return nil, err
	}
	if err := script.Add(scriptVarPassword, ""); err != nil {
		return nil, err
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile verifier script: %w", err)
	}
	return compiled, nil
}
