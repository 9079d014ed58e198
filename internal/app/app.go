// Package app is the composition root. It registers every service with a
// samber/do injector; the server and the CLI invoke what they need.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/do/v2"
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/loginpage/internal/config"
	"github.com/nfrund/loginpage/internal/database"
	"github.com/nfrund/loginpage/internal/domain"
	"github.com/nfrund/loginpage/internal/handlers"
	"github.com/nfrund/loginpage/internal/loginform"
	"github.com/nfrund/loginpage/internal/notify"
	"github.com/nfrund/loginpage/internal/pubsub"
	"github.com/nfrund/loginpage/internal/rendering"
	"github.com/nfrund/loginpage/internal/storage"
	"github.com/nfrund/loginpage/internal/verifier"
	"github.com/nfrund/loginpage/internal/websocket"
)

// closers collects teardown functions in creation order.
type closers struct {
	mu  sync.Mutex
	fns []func(context.Context) error
}

func (c *closers) add(fn func(context.Context) error) {
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.mu.Unlock()
}

// New registers all providers. Services are built lazily on first invoke;
// ctx bounds background work such as watching the verifier script.
func New(ctx context.Context, cfg config.Provider) do.Injector {
	i := do.New()

	do.ProvideValue(i, cfg)
	do.ProvideValue(i, &closers{})

	do.Provide(i, func(i do.Injector) (*surrealdb.DB, error) { return provideDB(ctx, i) })
	do.Provide(i, provideStore)
	do.Provide(i, func(i do.Injector) (domain.CredentialVerifier, error) { return provideVerifier(ctx, i) })
	do.Provide(i, provideRememberStore)
	do.Provide(i, provideBus)
	do.Provide(i, provideNotifier)
	do.Provide(i, provideRegistry)
	do.Provide(i, provideRenderer)
	do.Provide(i, provideLoginHandler)
	do.Provide(i, provideRedirectStream)

	return i
}

// Shutdown runs the registered teardown functions in reverse order.
func Shutdown(ctx context.Context, i do.Injector) error {
	c, err := do.Invoke[*closers](i)
	if err != nil {
		return err
	}
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()

	var errs []error
	for idx := len(fns) - 1; idx >= 0; idx-- {
		if err := fns[idx](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func provideDB(ctx context.Context, i do.Injector) (*surrealdb.DB, error) {
	cfg := do.MustInvoke[config.Provider](i)
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	do.MustInvoke[*closers](i).add(func(ctx context.Context) error {
		return db.Close(ctx)
	})
	return db, nil
}

func provideStore(i do.Injector) (storage.Store, error) {
	cfg := do.MustInvoke[config.Provider](i)
	switch cfg.GetStorageDriver() {
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil
	case config.StorageSurreal:
		db, err := do.Invoke[*surrealdb.DB](i)
		if err != nil {
			return nil, err
		}
		return storage.NewSurrealStore(db), nil
	case config.StorageFile, "":
		return storage.NewDiskStore(cfg.GetStorageDir()), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.GetStorageDriver())
	}
}

func provideVerifier(ctx context.Context, i do.Injector) (domain.CredentialVerifier, error) {
	cfg := do.MustInvoke[config.Provider](i)
	switch cfg.GetVerifier() {
	case config.VerifierScript:
		script, err := verifier.NewScriptFromFile(cfg.GetVerifierScript())
		if err != nil {
			return nil, err
		}
		if err := script.Watch(ctx); err != nil {
			slog.Warn("Verifier script will not be reloaded on change", "error", err)
		}
		return script, nil
	case config.VerifierSurreal:
		return verifier.NewSurreal(cfg), nil
	case config.VerifierStatic, "":
		return verifier.NewStatic(), nil
	default:
		return nil, fmt.Errorf("unknown verifier %q", cfg.GetVerifier())
	}
}

func provideRememberStore(i do.Injector) (*loginform.RememberStore, error) {
	store, err := do.Invoke[storage.Store](i)
	if err != nil {
		return nil, err
	}
	return loginform.NewRememberStore(store), nil
}

func provideBus(i do.Injector) (*pubsub.WatermillBridge, error) {
	bus := pubsub.NewWatermillBridge()
	do.MustInvoke[*closers](i).add(func(context.Context) error {
		return bus.Close()
	})
	return bus, nil
}

func provideNotifier(i do.Injector) (loginform.Notifier, error) {
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}
	return notify.Multi{loginform.NewLogNotifier(nil), notify.NewPubSub(bus)}, nil
}

func provideRegistry(i do.Injector) (*loginform.Registry, error) {
	cfg := do.MustInvoke[config.Provider](i)
	verify, err := do.Invoke[domain.CredentialVerifier](i)
	if err != nil {
		return nil, err
	}
	remember, err := do.Invoke[*loginform.RememberStore](i)
	if err != nil {
		return nil, err
	}
	notifier, err := do.Invoke[loginform.Notifier](i)
	if err != nil {
		return nil, err
	}

	deps := loginform.Dependencies{Verifier: verify, Remember: remember, Notifier: notifier}
	registry := loginform.NewRegistry(func(ctx context.Context, id string) *loginform.Form {
		form := loginform.New(deps, loginform.WithID(id), loginform.WithRedirectDelay(cfg.GetRedirectDelay()))
		if cfg.GetRememberPrefill() {
			if err := form.Restore(ctx); err != nil {
				slog.WarnContext(ctx, "Failed to restore remembered user", "form_id", id, "error", err)
			}
		}
		return form
	})
	do.MustInvoke[*closers](i).add(func(context.Context) error {
		registry.CloseAll()
		return nil
	})
	return registry, nil
}

func provideRenderer(i do.Injector) (rendering.Renderer, error) {
	return rendering.NewUniversalRenderer(), nil
}

func provideLoginHandler(i do.Injector) (*handlers.LoginHandler, error) {
	registry, err := do.Invoke[*loginform.Registry](i)
	if err != nil {
		return nil, err
	}
	return handlers.NewLoginHandler(registry, do.MustInvoke[rendering.Renderer](i)), nil
}

func provideRedirectStream(i do.Injector) (*websocket.RedirectStream, error) {
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}
	return websocket.NewRedirectStream(bus), nil
}
