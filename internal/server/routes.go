package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/loginpage/internal/handlers"
	"github.com/nfrund/loginpage/internal/middleware"
	"github.com/nfrund/loginpage/web"
	"github.com/nfrund/loginpage/web/templates/pages"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter(s.Cfg.GetLoginRateLimit())

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s.E.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, pages.LoginPath)
	})

	s.E.GET(pages.LoginPath, s.login.LoginGet)
	s.E.POST(pages.LoginPath, s.login.LoginPost, rateLimiter)
	s.E.GET(handlers.EventsPath, s.events.ServeWS)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
