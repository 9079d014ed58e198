package loginform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/loginpage/internal/domain"
)

// DefaultRedirectDelay is how long after a successful login the redirect
// notification fires.
const DefaultRedirectDelay = time.Second

// State is the form's local state. StatusMessage reflects the last submit
// and is recomputed wholesale on every submit.
type State struct {
	Email         string
	Password      string
	RememberMe    bool
	StatusMessage string
}

// Dependencies holds the services a form needs.
type Dependencies struct {
	Verifier domain.CredentialVerifier
	Remember *RememberStore
	Notifier Notifier
}

// Option configures a Form.
type Option func(*Form)

// WithID sets the form's identifier. By default a random UUID is used.
func WithID(id string) Option {
	return func(f *Form) { f.id = id }
}

// WithRedirectDelay overrides DefaultRedirectDelay.
func WithRedirectDelay(d time.Duration) Option {
	return func(f *Form) { f.delay = d }
}

// WithLogger sets the logger used for submit outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) { f.logger = logger }
}

// Form is one login form instance. It is safe for concurrent use; the web
// surface may see overlapping requests for the same session.
type Form struct {
	id        string
	validator *Validator
	remember  *RememberStore
	notifier  Notifier
	delay     time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	pending *time.Timer
	seq     uint64
	closed  bool
}

// New creates an empty form.
func New(deps Dependencies, opts ...Option) *Form {
	f := &Form{
		validator: NewValidator(deps.Verifier),
		remember:  deps.Remember,
		notifier:  deps.Notifier,
		delay:     DefaultRedirectDelay,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.id == "" {
		f.id = uuid.NewString()
	}
	return f
}

// ID returns the form's identifier.
func (f *Form) ID() string { return f.id }

// State returns a copy of the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetEmail replaces the email field.
func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	f.state.Email = email
	f.mu.Unlock()
}

// SetPassword replaces the password field.
func (f *Form) SetPassword(password string) {
	f.mu.Lock()
	f.state.Password = password
	f.mu.Unlock()
}

// SetRememberMe sets the remember-me flag.
func (f *Form) SetRememberMe(remember bool) {
	f.mu.Lock()
	f.state.RememberMe = remember
	f.mu.Unlock()
}

// ToggleRememberMe flips the remember-me flag and returns the new value.
// Nothing is persisted until the next submit.
func (f *Form) ToggleRememberMe() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.RememberMe = !f.state.RememberMe
	return f.state.RememberMe
}

// Restore pre-fills the email and checks remember-me from the remembered
// user, if any. A missing remembered user is not an error.
func (f *Form) Restore(ctx context.Context) error {
	if f.remember == nil {
		return nil
	}
	user, err := f.remember.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.state.Email = user.Email
	f.state.RememberMe = true
	f.mu.Unlock()
	return nil
}

// Submit validates the current fields and applies the outcome: it sets the
// status message and, on success, updates the remembered user and schedules
// the redirect notification. Failed submits never touch storage.
func (f *Form) Submit(ctx context.Context) Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	outcome := f.validator.Validate(ctx, f.state.Email, f.state.Password)
	f.state.StatusMessage = outcome.Kind.StatusMessage()

	if !outcome.OK() {
		f.logger.InfoContext(ctx, "Login rejected", "form_id", f.id, "outcome", outcome.Kind.String())
		return outcome
	}

	f.persistRemembered(ctx, outcome.Email)
	f.scheduleRedirect(ctx)
	f.logger.InfoContext(ctx, "Login accepted", "form_id", f.id, "email", outcome.Email, "remember_me", f.state.RememberMe)
	return outcome
}

// Close tears the form down and cancels a pending redirect notification.
// It is safe to call more than once.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.stopPending()
}

// Closed reports whether Close has been called.
func (f *Form) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// RedirectPending reports whether a redirect notification is scheduled and
// has not fired yet.
func (f *Form) RedirectPending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil
}

// persistRemembered must be called with f.mu held.
func (f *Form) persistRemembered(ctx context.Context, email string) {
	if f.remember == nil {
		return
	}
	var err error
	if f.state.RememberMe {
		err = f.remember.Save(ctx, email)
	} else {
		err = f.remember.Forget(ctx)
	}
	if err != nil {
		f.logger.ErrorContext(ctx, "Failed to update remembered user", "form_id", f.id, "error", err)
	}
}

// scheduleRedirect must be called with f.mu held. A newer schedule replaces
// an older one, so at most one notification is outstanding.
func (f *Form) scheduleRedirect(ctx context.Context) {
	if f.closed || f.notifier == nil {
		return
	}
	f.stopPending()

	seq := f.seq
	notifyCtx := context.WithoutCancel(ctx)
	f.pending = time.AfterFunc(f.delay, func() {
		f.fireRedirect(notifyCtx, seq)
	})
}

// stopPending must be called with f.mu held.
func (f *Form) stopPending() {
	f.seq++
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
}

func (f *Form) fireRedirect(ctx context.Context, seq uint64) {
	f.mu.Lock()
	if f.closed || seq != f.seq {
		f.mu.Unlock()
		return
	}
	f.pending = nil
	f.mu.Unlock()

	notice := Notice{FormID: f.id, Message: RedirectMessage, At: time.Now()}
	if err := f.notifier.NotifyRedirect(ctx, notice); err != nil {
		f.logger.ErrorContext(ctx, "Failed to deliver redirect notification", "form_id", f.id, "error", err)
	}
}
