package rendering

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func TestRenderComponent(t *testing.T) {
	r := NewUniversalRenderer()

	out, err := r.RenderComponent(context.Background(), h.P(g.Text("node")))
	require.NoError(t, err)
	assert.Equal(t, "<p>node</p>", string(out))

	out, err = r.RenderComponent(context.Background(), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "templ")
		return err
	}))
	require.NoError(t, err)
	assert.Equal(t, "templ", string(out))

	_, err = r.RenderComponent(context.Background(), 42)
	assert.ErrorContains(t, err, "unsupported component type")
}

func TestRenderPageAndEchoRenderer(t *testing.T) {
	e := echo.New()
	r := NewUniversalRenderer()
	e.Renderer = r

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, r.RenderPage(c, http.StatusCreated, h.Div(g.Text("page"))))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Equal(t, "<div>page</div>", rec.Body.String())

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.Render(http.StatusOK, "", h.Span(g.Text("via echo"))))
	assert.Equal(t, "<span>via echo</span>", rec.Body.String())
}
