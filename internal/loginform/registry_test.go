package loginform

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() (*Registry, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(func(ctx context.Context, id string) *Form {
		return New(Dependencies{Verifier: nil}, WithID(id))
	})
	r.now = func() time.Time { return now }
	return r, &now
}

func TestRegistry_GetOrCreate(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	a := r.GetOrCreate(ctx, "")
	require.NotEmpty(t, a.ID())

	again := r.GetOrCreate(ctx, a.ID())
	assert.Same(t, a, again)

	b := r.GetOrCreate(ctx, "known-id")
	assert.Equal(t, "known-id", b.ID())
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get("known-id")
	assert.True(t, ok)
	assert.Same(t, b, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_SweepClosesIdleForms(t *testing.T) {
	r, now := newTestRegistry()
	ctx := context.Background()

	idle := r.GetOrCreate(ctx, "idle")
	*now = now.Add(10 * time.Minute)
	active := r.GetOrCreate(ctx, "active")

	removed := r.Sweep(5 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.True(t, idle.Closed())
	assert.False(t, active.Closed())
	_, ok := r.Get("idle")
	assert.False(t, ok)
}

func TestRegistry_RemoveAndCloseAll(t *testing.T) {
	r, _ := newTestRegistry()
	ctx := context.Background()

	a := r.GetOrCreate(ctx, "a")
	b := r.GetOrCreate(ctx, "b")
	c := r.GetOrCreate(ctx, "c")

	r.Remove("a")
	r.Remove("a")
	assert.True(t, a.Closed())
	assert.Equal(t, 2, r.Len())

	r.CloseAll()
	assert.True(t, b.Closed())
	assert.True(t, c.Closed())
	assert.Zero(t, r.Len())
}

func TestRegistry_SlowFactoryDoesNotBlockOtherSessions(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	r := NewRegistry(func(ctx context.Context, id string) *Form {
		if id == "slow" {
			close(entered)
			<-release
		}
		return New(Dependencies{}, WithID(id))
	})
	defer r.CloseAll()
	ctx := context.Background()

	slowDone := make(chan *Form)
	go func() { slowDone <- r.GetOrCreate(ctx, "slow") }()
	<-entered

	fastDone := make(chan *Form)
	go func() { fastDone <- r.GetOrCreate(ctx, "fast") }()
	select {
	case form := <-fastDone:
		assert.Equal(t, "fast", form.ID())
	case <-time.After(time.Second):
		t.Fatal("creating one form blocked while another was being built")
	}

	close(release)
	assert.Equal(t, "slow", (<-slowDone).ID())
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_ConcurrentCreateKeepsOneForm(t *testing.T) {
	var (
		mu      sync.Mutex
		built   []*Form
		waiting sync.WaitGroup
	)
	waiting.Add(2)
	r := NewRegistry(func(ctx context.Context, id string) *Form {
		form := New(Dependencies{}, WithID(id))
		mu.Lock()
		built = append(built, form)
		mu.Unlock()
		// Both callers are inside the factory before either registers.
		waiting.Done()
		waiting.Wait()
		return form
	})
	defer r.CloseAll()
	ctx := context.Background()

	results := make(chan *Form, 2)
	for range 2 {
		go func() { results <- r.GetOrCreate(ctx, "shared") }()
	}
	first, second := <-results, <-results

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
	require.Len(t, built, 2)
	closed := 0
	for _, form := range built {
		if form.Closed() {
			closed++
		}
	}
	assert.Equal(t, 1, closed, "the losing form is closed")
	assert.False(t, first.Closed())
}
