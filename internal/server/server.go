package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"

	"github.com/nfrund/loginpage/internal/config"
	"github.com/nfrund/loginpage/internal/handlers"
	"github.com/nfrund/loginpage/internal/loginform"
	"github.com/nfrund/loginpage/internal/middleware"
	"github.com/nfrund/loginpage/internal/rendering"
	"github.com/nfrund/loginpage/internal/websocket"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	injector do.Injector

	forms  *loginform.Registry
	login  *handlers.LoginHandler
	events *websocket.RedirectStream
}

// New builds the echo instance and resolves the handlers from the injector.
func New(cfg config.Provider, injector do.Injector) (*Server, error) {
	forms, err := do.Invoke[*loginform.Registry](injector)
	if err != nil {
		return nil, fmt.Errorf("failed to build form registry: %w", err)
	}
	login, err := do.Invoke[*handlers.LoginHandler](injector)
	if err != nil {
		return nil, fmt.Errorf("failed to build login handler: %w", err)
	}
	events, err := do.Invoke[*websocket.RedirectStream](injector)
	if err != nil {
		return nil, fmt.Errorf("failed to build redirect stream: %w", err)
	}
	renderer, err := do.Invoke[rendering.Renderer](injector)
	if err != nil {
		return nil, fmt.Errorf("failed to build renderer: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	if r, ok := renderer.(echo.Renderer); ok {
		e.Renderer = r
	}
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	return &Server{
		E:        e,
		Cfg:      cfg,
		injector: injector,
		forms:    forms,
		login:    login,
		events:   events,
	}, nil
}

// setupErrorHandling logs unhandled errors with a stack trace. HTTP errors
// raised on purpose are answered by echo's default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if _, ok := err.(*echo.HTTPError); !ok {
			middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// Forms exposes the form registry, useful for testing.
func (s *Server) Forms() *loginform.Registry {
	return s.forms
}

// logStartup is split out so Start stays readable.
func (s *Server) logStartup(addr string) {
	slog.Info("Starting login server",
		"addr", addr,
		"storage", s.Cfg.GetStorageDriver(),
		"verifier", s.Cfg.GetVerifier(),
		"redirect_delay", s.Cfg.GetRedirectDelay(),
	)
}
