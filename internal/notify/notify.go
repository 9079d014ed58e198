package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nfrund/loginpage/internal/loginform"
	"github.com/nfrund/loginpage/internal/pubsub"
)

// RedirectTopic carries redirect notices; the message UserID is the form id.
const RedirectTopic = "login.redirect"

// PubSub publishes redirect notices on RedirectTopic.
type PubSub struct {
	publisher pubsub.Publisher
}

// NewPubSub creates a notifier that publishes through publisher.
func NewPubSub(publisher pubsub.Publisher) *PubSub {
	return &PubSub{publisher: publisher}
}

// NotifyRedirect publishes the notice message as the payload.
func (n *PubSub) NotifyRedirect(ctx context.Context, notice loginform.Notice) error {
	err := n.publisher.Publish(ctx, pubsub.Message{
		Topic:   RedirectTopic,
		UserID:  notice.FormID,
		Payload: []byte(notice.Message),
		Metadata: map[string]string{
			"timestamp": notice.At.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish redirect notice: %w", err)
	}
	return nil
}

// Writer prints redirect notices as lines and signals Done after the first
// one. The terminal frontend uses it to wait for the redirect.
type Writer struct {
	mu   sync.Mutex
	w    io.Writer
	once sync.Once
	done chan struct{}
}

// NewWriter creates a Writer that prints to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, done: make(chan struct{})}
}

// NotifyRedirect prints the notice. Only the first notice closes Done.
func (n *Writer) NotifyRedirect(ctx context.Context, notice loginform.Notice) error {
	n.mu.Lock()
	_, err := fmt.Fprintln(n.w, notice.Message)
	n.mu.Unlock()
	if err != nil {
		return err
	}
	n.once.Do(func() { close(n.done) })
	return nil
}

// Done is closed once a notice has been printed.
func (n *Writer) Done() <-chan struct{} {
	return n.done
}

// Multi delivers each notice to every notifier in order and joins their errors.
type Multi []loginform.Notifier

// NotifyRedirect implements loginform.Notifier.
func (m Multi) NotifyRedirect(ctx context.Context, notice loginform.Notice) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyRedirect(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
