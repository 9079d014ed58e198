package loginform

import (
	"context"
	"log/slog"
	"time"
)

// Notice is the one-shot redirect notification fired after a successful login.
type Notice struct {
	FormID  string
	Message string
	At      time.Time
}

// Notifier delivers redirect notices to whatever surface shows them.
type Notifier interface {
	NotifyRedirect(ctx context.Context, notice Notice) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, notice Notice) error

// NotifyRedirect calls f.
func (f NotifierFunc) NotifyRedirect(ctx context.Context, notice Notice) error {
	return f(ctx, notice)
}

// LogNotifier writes notices to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger means slog.Default().
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// NotifyRedirect logs the notice at info level.
func (n *LogNotifier) NotifyRedirect(ctx context.Context, notice Notice) error {
	n.logger.InfoContext(ctx, notice.Message, "form_id", notice.FormID)
	return nil
}
