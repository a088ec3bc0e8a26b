package middleware

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"carfleet/internal/auth"
	"carfleet/internal/errors"
	"carfleet/internal/model"
	"carfleet/internal/repository"
)

const (
	// ContextUserKey is where the gate stores the resolved user for handlers.
	ContextUserKey = "current_user"
	// ContextSessionKey is where the gate stores the resolved session.
	ContextSessionKey = "current_session"

	loginPath = "/auth/login"
)

// AuthGate enforces session-based authentication and role checks. One
// underlying check backs four variants: {page, API} x {any user, admin}.
type AuthGate struct {
	sessions auth.SessionManagerInterface
	users    repository.UserRepository
}

// NewAuthGate creates the gate over the given session and user stores.
func NewAuthGate(sessions auth.SessionManagerInterface, users repository.UserRepository) *AuthGate {
	return &AuthGate{sessions: sessions, users: users}
}

// CurrentUser returns the user the gate attached to the request context.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(ContextUserKey).(*model.User)
	return user
}

// CurrentSession returns the session the gate attached to the request context.
func CurrentSession(c echo.Context) *model.Session {
	session, _ := c.Get(ContextSessionKey).(*model.Session)
	return session
}

// RequireUser guards page routes: unauthenticated requests are redirected to
// the login page with the requested URL remembered for after login.
func (g *AuthGate) RequireUser() echo.MiddlewareFunc {
	return g.require(false, false)
}

// RequireAdmin guards admin page routes: authenticated non-admins get a 403
// error page and keep their session.
func (g *AuthGate) RequireAdmin() echo.MiddlewareFunc {
	return g.require(true, false)
}

// RequireUserAPI guards JSON routes: failures answer 401 with an error body.
func (g *AuthGate) RequireUserAPI() echo.MiddlewareFunc {
	return g.require(false, true)
}

// RequireAdminAPI guards admin JSON routes: non-admins get a 403 error body.
func (g *AuthGate) RequireAdminAPI() echo.MiddlewareFunc {
	return g.require(true, true)
}

func (g *AuthGate) require(admin, api bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			cookie, err := c.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				return g.unauthenticated(c, nil, api)
			}

			session, err := g.sessions.Resolve(ctx, cookie.Value)
			if err != nil {
				if repository.IsNotFound(err) {
					// Expired, never existed, or lost a race with a concurrent
					// destroy. All of these mean "no session".
					ClearSessionCookie(c)
					return g.unauthenticated(c, nil, api)
				}
				return g.internal(c, api, err)
			}

			if session.UserID == 0 {
				// Anonymous session: a cookie exists only to carry ReturnTo.
				return g.unauthenticated(c, session, api)
			}

			user, err := g.users.FindActiveByID(ctx, session.UserID)
			if err != nil {
				if repository.IsNotFound(err) {
					// The user was soft-deleted (or never existed) after the
					// session was issued. The session must not survive this.
					if derr := g.sessions.Destroy(ctx, session.ID); derr != nil {
						log.Printf("destroy stale session: %v", derr)
					}
					ClearSessionCookie(c)
					return g.unauthenticated(c, nil, api)
				}
				return g.internal(c, api, err)
			}

			if admin && !user.IsAdmin {
				// Authenticated but unauthorized: the session stays valid.
				if api {
					return c.JSON(http.StatusForbidden, errors.ErrorResponse{
						Error: "Admin privileges required",
					})
				}
				return c.Render(http.StatusForbidden, "error.html", echo.Map{
					"Message": "Access denied - Admin privileges required",
					"User":    user,
				})
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextSessionKey, session)
			return next(c)
		}
	}
}

// RedirectIfAuthenticated keeps signed-in users away from the login page.
// It checks only that a session with a user id exists; the gate on the page
// being redirected to does the active-user verification.
func (g *AuthGate) RedirectIfAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			session, err := g.sessions.Resolve(c.Request().Context(), cookie.Value)
			if err != nil || session.UserID == 0 {
				return next(c)
			}
			return c.Redirect(http.StatusFound, "/")
		}
	}
}

func (g *AuthGate) unauthenticated(c echo.Context, session *model.Session, api bool) error {
	if api {
		return c.JSON(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "Authentication required",
		})
	}

	ctx := c.Request().Context()
	target := c.Request().RequestURI

	if session == nil {
		// Create an anonymous session solely to remember where to return.
		anon, err := g.sessions.Create(ctx, 0)
		if err == nil {
			session = anon
			SetSessionCookie(c, anon.ID, anon.ExpiresAt)
		}
	}
	if session != nil {
		if err := g.sessions.RememberReturnTo(ctx, session, target); err != nil {
			log.Printf("remember return path: %v", err)
		}
	}
	return c.Redirect(http.StatusFound, loginPath)
}

func (g *AuthGate) internal(c echo.Context, api bool, err error) error {
	log.Printf("auth gate: %v", err)
	if api {
		return c.JSON(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "Authentication error occurred",
		})
	}
	return c.Render(http.StatusInternalServerError, "error.html", echo.Map{
		"Message": "Authentication error occurred",
	})
}
