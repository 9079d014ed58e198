package loginform

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds a new form with the given id.
type Factory func(ctx context.Context, id string) *Form

// Registry keeps one form per browser session. Forms that stay idle longer
// than the sweep threshold are closed, which is their teardown.
type Registry struct {
	factory Factory
	now     func() time.Time

	mu    sync.Mutex
	forms map[string]*registryEntry
}

type registryEntry struct {
	form     *Form
	lastSeen time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		now:     time.Now,
		forms:   make(map[string]*registryEntry),
	}
}

// Get returns the form for id and marks it as seen.
func (r *Registry) Get(id string) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.forms[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.form, true
}

// GetOrCreate returns the form for id, creating it when id is empty or
// unknown. An empty id gets a fresh UUID.
func (r *Registry) GetOrCreate(ctx context.Context, id string) *Form {
	if id == "" {
		id = uuid.NewString()
	}

	if form, ok := r.Get(id); ok {
		return form
	}

	// The factory may hit storage, so it runs unlocked. If another caller
	// registered the id meanwhile, theirs wins and ours is closed.
	form := r.factory(ctx, id)

	r.mu.Lock()
	if entry, ok := r.forms[form.ID()]; ok {
		entry.lastSeen = r.now()
		r.mu.Unlock()
		form.Close()
		return entry.form
	}
	r.forms[form.ID()] = &registryEntry{form: form, lastSeen: r.now()}
	r.mu.Unlock()
	return form
}

// Remove closes and forgets the form for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	entry, ok := r.forms[id]
	delete(r.forms, id)
	r.mu.Unlock()
	if ok {
		entry.form.Close()
	}
}

// Len returns the number of live forms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep closes and removes forms not seen for maxIdle. It returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Form
	for id, entry := range r.forms {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry.form)
			delete(r.forms, id)
		}
	}
	r.mu.Unlock()

	for _, form := range stale {
		form.Close()
	}
	return len(stale)
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				slog.Debug("Swept idle login forms", "count", n)
			}
		}
	}
}

// CloseAll closes every form. Used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	forms := r.forms
	r.forms = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, entry := range forms {
		entry.form.Close()
	}
}
