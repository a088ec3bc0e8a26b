package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"carfleet/internal/auth"
	apperrors "carfleet/internal/errors"
	"carfleet/internal/middleware"
	"carfleet/internal/service"
)

// AuthHandler serves the login flow and the admin user-management panel.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	sessions    auth.SessionManagerInterface
	dev         bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService, sessions auth.SessionManagerInterface, dev bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		sessions:    sessions,
		dev:         dev,
	}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", echo.Map{"Error": nil})
}

// Login processes the login form. Unknown username and wrong password render
// the same message.
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.Render(http.StatusBadRequest, "login.html", echo.Map{
			"Error": "Username and password are required",
		})
	}

	ctx := c.Request().Context()

	session, user, err := h.authService.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return c.Render(http.StatusUnauthorized, "login.html", echo.Map{
				"Error": "Invalid credentials",
			})
		}
		return renderErrorPage(c, err, h.dev)
	}

	// A pre-login anonymous session may carry the URL the user originally
	// asked for. Consume it and retire that session.
	returnTo := ""
	if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		if old, err := h.sessions.Resolve(ctx, cookie.Value); err == nil && old.UserID == 0 {
			if target, err := h.sessions.ConsumeReturnTo(ctx, old); err == nil {
				returnTo = target
			}
			if err := h.sessions.Destroy(ctx, old.ID); err != nil {
				log.Printf("retire anonymous session: %v", err)
			}
		}
	}

	middleware.SetSessionCookie(c, session.ID, session.ExpiresAt)

	switch {
	case user.IsAdmin:
		return c.Redirect(http.StatusFound, "/auth/admin")
	case returnTo != "":
		return c.Redirect(http.StatusFound, returnTo)
	default:
		return c.Redirect(http.StatusFound, "/")
	}
}

// Logout destroys the session and always redirects to login.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		h.authService.Logout(c.Request().Context(), cookie.Value)
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/auth/login")
}

// AdminPanel lists active users.
func (h *AuthHandler) AdminPanel(c echo.Context) error {
	users, err := h.userService.ListActive(c.Request().Context())
	if err != nil {
		return renderErrorPage(c, err, h.dev)
	}
	return c.Render(http.StatusOK, "admin.html", echo.Map{
		"Users":   users,
		"Error":   nil,
		"Success": nil,
	})
}

// CreateUser handles the admin create-user form.
func (h *AuthHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	username := c.FormValue("username")
	password := c.FormValue("password")
	isAdmin := c.FormValue("is_admin") == "true"

	renderWithError := func(status int, msg string) error {
		users, err := h.userService.ListActive(ctx)
		if err != nil {
			return renderErrorPage(c, err, h.dev)
		}
		return c.Render(status, "admin.html", echo.Map{
			"Users":   users,
			"Error":   msg,
			"Success": nil,
		})
	}

	if username == "" || password == "" {
		return renderWithError(http.StatusBadRequest, "Username and password are required")
	}

	if _, err := h.userService.Create(ctx, username, password, isAdmin); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return renderWithError(http.StatusBadRequest, "Username already exists")
		}
		return renderWithError(http.StatusBadRequest, "User creation failed")
	}
	return c.Redirect(http.StatusFound, "/auth/admin")
}

// UpdateUserRequest is the JSON body for the admin user update endpoint.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateUser handles the admin user update endpoint.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid user id"})
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "Username is required"})
	}

	if err := h.userService.Update(c.Request().Context(), uint(id), req.Username, req.Password, req.IsAdmin); err != nil {
		return respondJSONError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteUser soft-deletes a user. Self-deletion is rejected.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperrors.ErrorResponse{Error: "invalid user id"})
	}

	actor := middleware.CurrentUser(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, apperrors.ErrorResponse{Error: "Authentication required"})
	}

	if err := h.userService.SoftDelete(c.Request().Context(), uint(id), actor.ID); err != nil {
		return respondJSONError(c, err, h.dev)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
