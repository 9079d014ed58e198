package view

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func TestAdapters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AdaptGomponentToTempl(h.P(g.Text("hi"))).Render(context.Background(), &buf))
	assert.Equal(t, "<p>hi</p>", buf.String())

	component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<b>x</b>")
		return err
	})
	buf.Reset()
	require.NoError(t, h.Div(AdaptTemplToGomponent(context.Background(), component)).Render(&buf))
	assert.Equal(t, "<div><b>x</b></div>", buf.String())
}
