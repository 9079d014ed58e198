package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// redirectListener opens the redirect event stream named by the body's
// data-login-events attribute and shows each message with alert().
const redirectListener = `<script>
(function () {
  var path = document.body.dataset.loginEvents;
  if (!path || !window.WebSocket) { return; }
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + path);
  ws.onmessage = function (event) { alert(event.data); };
})();
</script>`

// Base is the page shell. eventsPath may be empty, in which case no redirect
// listener is attached.
func Base(title, eventsPath string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/static/login.css"><script src="%s"></script></head>`,
			templ.EscapeString(CalculateTitle(title)), htmxSrc,
		); err != nil {
			return err
		}
		if eventsPath != "" {
			if _, err := fmt.Fprintf(w, `<body data-login-events="%s">`, templ.EscapeString(eventsPath)); err != nil {
				return err
			}
		} else if _, err := io.WriteString(w, "<body>"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		if eventsPath != "" {
			if _, err := io.WriteString(w, redirectListener); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}
