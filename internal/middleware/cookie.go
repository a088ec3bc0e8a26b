package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"carfleet/internal/auth"
)

// SetSessionCookie attaches the session token to the response. The cookie is
// HttpOnly and expires with the server-side session; the session row remains
// the source of truth for validity.
func SetSessionCookie(c echo.Context, sessionID string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
