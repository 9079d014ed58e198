package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/loginpage/internal/loginform"
	"github.com/nfrund/loginpage/internal/middleware"
	"github.com/nfrund/loginpage/internal/rendering"
	"github.com/nfrund/loginpage/internal/view"
	"github.com/nfrund/loginpage/internal/view/dto/auth"
	"github.com/nfrund/loginpage/web/templates/layouts"
	"github.com/nfrund/loginpage/web/templates/pages"
)

// EventsPath is where the login page listens for its redirect notice.
const EventsPath = "/login/events"

// LoginHandler serves the login form. Each browser session owns one form
// instance, looked up through the form id kept in its cookie session.
type LoginHandler struct {
	forms    *loginform.Registry
	renderer rendering.Renderer
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(forms *loginform.Registry, renderer rendering.Renderer) *LoginHandler {
	return &LoginHandler{forms: forms, renderer: renderer}
}

// LoginGet renders the login page (GET /login) with the session form's
// current state.
func (h *LoginHandler) LoginGet(c echo.Context) error {
	form, err := h.formFor(c)
	if err != nil {
		return err
	}

	data := loginData(form.State())
	page := layouts.Base("Login", data.EventsPath, view.AdaptGomponentToTempl(pages.LoginContent(data)))
	return h.renderer.RenderPage(c, http.StatusOK, page)
}

// LoginPost handles a form submission (POST /login). htmx requests get the
// re-rendered form fragment; plain posts are redirected back to GET /login.
func (h *LoginHandler) LoginPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		logger.Warn("Malformed login submission", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed login submission.")
	}
	if err := c.Validate(&req); err != nil {
		logger.Warn("Rejected login submission", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed login submission.")
	}

	form, err := h.formFor(c)
	if err != nil {
		return err
	}
	form.SetEmail(req.Email)
	form.SetPassword(req.Password)
	form.SetRememberMe(req.RememberMe)
	outcome := form.Submit(ctx)
	logger.Debug("Login form submitted", "form_id", form.ID(), "outcome", outcome.Kind.String())

	if isHTMX(c) {
		return h.renderer.RenderPage(c, http.StatusOK, pages.LoginForm(loginData(form.State())))
	}
	return c.Redirect(http.StatusSeeOther, pages.LoginPath)
}

// formFor returns the session's form, creating one (and a new form id) when
// the session has none or its form has been swept.
func (h *LoginHandler) formFor(c echo.Context) (*loginform.Form, error) {
	if id, ok := view.FormID(c); ok {
		if form, found := h.forms.Get(id); found {
			return form, nil
		}
	}

	form := h.forms.GetOrCreate(c.Request().Context(), "")
	if err := view.SetFormID(c, form.ID()); err != nil {
		h.forms.Remove(form.ID())
		middleware.FromContext(c.Request().Context()).Error("Failed to store form id in session", "error", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Could not start a login session.")
	}
	return form, nil
}

func loginData(state loginform.State) auth.LoginData {
	return auth.LoginData{
		Email:         state.Email,
		RememberMe:    state.RememberMe,
		StatusMessage: state.StatusMessage,
		Success:       state.StatusMessage == loginform.StatusSuccess,
		EventsPath:    EventsPath,
	}
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
