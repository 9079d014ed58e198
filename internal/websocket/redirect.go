package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/loginpage/internal/notify"
	"github.com/nfrund/loginpage/internal/pubsub"
	"github.com/nfrund/loginpage/internal/view"
)

const (
	// writeWait bounds a single write to the peer.
	writeWait = 10 * time.Second
	// sendBuffer is how many notices may queue for a slow client.
	sendBuffer = 8
)

// client is one connected browser tab listening for its form's redirect.
type client struct {
	formID string
	conn   *websocket.Conn
	send   chan []byte
}

// RedirectStream pushes redirect notices to the browser that owns the form.
// Each connection subscribes to notify.RedirectTopic and forwards only the
// messages addressed to the session's form id.
type RedirectStream struct {
	subscriber     pubsub.Subscriber
	originPatterns []string
}

// NewRedirectStream creates a stream backed by subscriber. originPatterns is
// passed to websocket.Accept; same-host requests are always allowed.
func NewRedirectStream(subscriber pubsub.Subscriber, originPatterns ...string) *RedirectStream {
	return &RedirectStream{subscriber: subscriber, originPatterns: originPatterns}
}

// ServeWS upgrades the request and streams redirect notices until the peer
// goes away.
func (s *RedirectStream) ServeWS(c echo.Context) error {
	formID, ok := view.FormID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no login form for this session")
	}
	logger := slog.Default().With("form_id", formID)

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	cl := &client{formID: formID, send: make(chan []byte, sendBuffer)}

	// Subscribe before the upgrade so nothing published after the handshake
	// is missed.
	err := s.subscriber.Subscribe(ctx, notify.RedirectTopic, func(_ context.Context, msg pubsub.Message) error {
		if msg.UserID != cl.formID {
			return nil
		}
		select {
		case cl.send <- msg.Payload:
		default:
			logger.Warn("Redirect stream send buffer full, dropping notice")
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to subscribe to redirect notices", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "redirect stream unavailable")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		// Accept has already written the error response.
		logger.Warn("Failed to upgrade redirect stream", "error", err)
		return nil
	}
	defer conn.CloseNow()
	cl.conn = conn

	logger.Debug("Redirect stream connected")
	// The browser never sends anything; CloseRead handles control frames and
	// cancels the context once the peer disconnects.
	s.writePump(conn.CloseRead(ctx), cl, logger)
	logger.Debug("Redirect stream disconnected")
	return nil
}

func (s *RedirectStream) writePump(ctx context.Context, cl *client, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			cl.conn.Close(websocket.StatusNormalClosure, "")
			return

		case payload := <-cl.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := cl.conn.Write(writeCtx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				logger.Warn("Redirect stream write failed", "error", err)
				return
			}
		}
	}
}
