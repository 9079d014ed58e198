package view

import (
	"fmt"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	formSessionName = "login-session"
	formIDKey       = "form_id"
)

// FormID returns the login form id stored in the visitor's session.
func FormID(c echo.Context) (string, bool) {
	sess, err := session.Get(formSessionName, c)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values[formIDKey].(string)
	return id, ok && id != ""
}

// SetFormID stores the login form id in the visitor's session.
func SetFormID(c echo.Context, id string) error {
	sess, err := session.Get(formSessionName, c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	sess.Values[formIDKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
